package middleware

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit"
	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

type UserProvider interface {
	EnsureUser(ctx context.Context, id int64) (model.User, error)
}

// RoleOnly пропускает к view только пользователей с одной из указанных ролей.
// Роль берется из базы, а не из телеграма: она должна переживать рестарты
// и быть одинаковой для всех конкурентных хендлеров
func RoleOnly(users UserProvider, next botkit.ViewFunc, roles ...model.Role) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		user, err := users.EnsureUser(ctx, update.Message.From.ID)
		if err != nil {
			return err
		}

		for _, role := range roles {
			if user.Role == role {
				return next(ctx, bot, update)
			}
		}

		if _, err := bot.Send(tgbotapi.NewMessage(
			update.Message.Chat.ID,
			"🚫 У вас нет прав для выполнения этой команды",
		)); err != nil {
			return err
		}

		return nil
	}
}
