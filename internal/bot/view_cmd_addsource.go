package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit"
	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

type SourceStorage interface {
	Add(ctx context.Context, source model.Source) (int64, error)
}

// ViewCmdAddSource добавляет RSS источник:
// /addsource {"category": "sports", "url": "https://..."}
// Новости источника будут попадать в указанную категорию
func ViewCmdAddSource(storage SourceStorage) botkit.ViewFunc {
	type addSourceArgs struct {
		Category string `json:"category"`
		URL      string `json:"url"`
	}

	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		args, err := botkit.ParseJSON[addSourceArgs](update.Message.CommandArguments())
		if err != nil || args.Category == "" || args.URL == "" {
			_, err := bot.Send(tgbotapi.NewMessage(
				update.Message.Chat.ID,
				`Использование: /addsource {"category": "sports", "url": "https://..."}`,
			))
			return err
		}

		source := model.Source{
			Category: args.Category,
			URL:      args.URL,
			IsActive: true,
		}

		sourceID, err := storage.Add(ctx, source)
		if err != nil {
			return err
		}

		var (
			msgText = fmt.Sprintf(
				"Источник добавлен с ID: `%d`\\. Используйте этот ID для управления источником\\.",
				sourceID,
			)
			reply = tgbotapi.NewMessage(update.Message.Chat.ID, msgText)
		)

		reply.ParseMode = tgbotapi.ModeMarkdownV2

		if _, err := bot.Send(reply); err != nil {
			return err
		}

		return nil
	}
}
