package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit"
	"github.com/kovalyov-valentin/news-portal-bot/internal/storage"
)

type SourceToggler interface {
	SetActive(ctx context.Context, id int64, active bool) error
}

// ViewCmdToggleSource включает или выключает источник:
// /togglesource {"id": 3, "active": false}.
// Выключенный источник перестает опрашиваться воркером, но не удаляется
func ViewCmdToggleSource(toggler SourceToggler) botkit.ViewFunc {
	type toggleArgs struct {
		ID     int64 `json:"id"`
		Active bool  `json:"active"`
	}

	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		args, err := botkit.ParseJSON[toggleArgs](update.Message.CommandArguments())
		if err != nil {
			_, err := bot.Send(tgbotapi.NewMessage(
				update.Message.Chat.ID,
				`Использование: /togglesource {"id": 3, "active": false}`,
			))
			return err
		}

		if err := toggler.SetActive(ctx, args.ID, args.Active); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "❌ Источник не найден."))
				return err
			}
			return err
		}

		status := "включен"
		if !args.Active {
			status = "выключен"
		}

		msgText := fmt.Sprintf("✅ Источник %d %s.", args.ID, status)

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText)); err != nil {
			return err
		}

		return nil
	}
}
