package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit"
	"github.com/kovalyov-valentin/news-portal-bot/internal/limits"
	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
	"github.com/kovalyov-valentin/news-portal-bot/internal/moderation"
)

type Submitter interface {
	Submit(ctx context.Context, draft model.Draft, authorID int64) (int64, error)
}

// ViewCmdSubmit отправляет новость писателя в очередь на проверку:
// /submit {"category": "sports", "title": "...", "description": "...", "image_url": ""}
func ViewCmdSubmit(moderator Submitter) botkit.ViewFunc {
	type submitArgs struct {
		Category    string `json:"category"`
		Title       string `json:"title"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
	}

	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		args, err := botkit.ParseJSON[submitArgs](update.Message.CommandArguments())
		if err != nil {
			_, err := bot.Send(tgbotapi.NewMessage(
				update.Message.Chat.ID,
				`Использование: /submit {"category": "sports", "title": "...", "description": "..."}`,
			))
			return err
		}

		if args.Category == "" || args.Title == "" || args.Description == "" {
			_, err := bot.Send(tgbotapi.NewMessage(
				update.Message.Chat.ID,
				"Категория, заголовок и описание обязательны.",
			))
			return err
		}

		pendingID, err := moderator.Submit(ctx, model.Draft{
			Category:    args.Category,
			Title:       args.Title,
			Description: args.Description,
			ImageURL:    args.ImageURL,
			Source:      "Writer",
		}, update.Message.From.ID)

		switch {
		case errors.Is(err, moderation.ErrNoAccess):
			_, err := bot.Send(tgbotapi.NewMessage(
				update.Message.Chat.ID,
				"🚫 Отправлять новости могут только писатели.",
			))
			return err
		case err != nil:
			var exceeded *limits.ExceededError
			if errors.As(err, &exceeded) {
				msgText := fmt.Sprintf(
					"🚫 Лимит публикаций исчерпан: %d/%d.\nДокупить: /buy {\"kind\": \"create\", \"quantity\": 5}",
					exceeded.Used,
					exceeded.Limit,
				)
				_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText))
				return err
			}
			return err
		}

		msgText := fmt.Sprintf("✅ Новость отправлена на проверку! ID заявки: %d", pendingID)

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText)); err != nil {
			return err
		}

		return nil
	}
}
