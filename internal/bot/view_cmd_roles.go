package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit"
	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

type RoleManager interface {
	SetRole(ctx context.Context, userID int64, role model.Role) error
	DemoteRole(ctx context.Context, userID int64, role model.Role) (bool, error)
}

// ViewCmdSetRole назначает пользователю роль:
// /setrole {"user_id": 123, "role": "writer"}
func ViewCmdSetRole(users RoleManager) botkit.ViewFunc {
	type setRoleArgs struct {
		UserID int64      `json:"user_id"`
		Role   model.Role `json:"role"`
	}

	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		args, err := botkit.ParseJSON[setRoleArgs](update.Message.CommandArguments())
		if err != nil || !args.Role.Valid() {
			_, err := bot.Send(tgbotapi.NewMessage(
				update.Message.Chat.ID,
				`Использование: /setrole {"user_id": 123, "role": "writer"}. Роли: reader, writer, manager, admin`,
			))
			return err
		}

		if err := users.SetRole(ctx, args.UserID, args.Role); err != nil {
			return err
		}

		msgText := fmt.Sprintf("✅ Пользователю %d назначена роль %s.", args.UserID, args.Role)

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText)); err != nil {
			return err
		}

		return nil
	}
}

// ViewCmdRemoveRole снимает роль, возвращая пользователя к reader:
// /removerole {"user_id": 123, "role": "writer"}
func ViewCmdRemoveRole(users RoleManager) botkit.ViewFunc {
	type removeRoleArgs struct {
		UserID int64      `json:"user_id"`
		Role   model.Role `json:"role"`
	}

	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		args, err := botkit.ParseJSON[removeRoleArgs](update.Message.CommandArguments())
		if err != nil || !args.Role.Valid() {
			_, err := bot.Send(tgbotapi.NewMessage(
				update.Message.Chat.ID,
				`Использование: /removerole {"user_id": 123, "role": "writer"}`,
			))
			return err
		}

		removed, err := users.DemoteRole(ctx, args.UserID, args.Role)
		if err != nil {
			return err
		}

		msgText := fmt.Sprintf("✅ Роль %s снята с пользователя %d.", args.Role, args.UserID)
		if !removed {
			msgText = fmt.Sprintf("ℹ️ У пользователя %d сейчас нет роли %s.", args.UserID, args.Role)
		}

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText)); err != nil {
			return err
		}

		return nil
	}
}
