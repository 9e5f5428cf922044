package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit"
	"github.com/kovalyov-valentin/news-portal-bot/internal/storage"
)

type RatingService interface {
	Set(ctx context.Context, userID, newsID int64, value int) error
	Counts(ctx context.Context, newsID int64) (likes, dislikes int, err error)
}

// ViewCmdRate ставит оценку новости:
// /rate {"id": 42, "value": 1} или {"id": 42, "value": -1}.
// Повторная оценка перезаписывает предыдущую
func ViewCmdRate(news NewsProvider, ratings RatingService) botkit.ViewFunc {
	type rateArgs struct {
		ID    int64 `json:"id"`
		Value int   `json:"value"`
	}

	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		args, err := botkit.ParseJSON[rateArgs](update.Message.CommandArguments())
		if err != nil {
			_, err := bot.Send(tgbotapi.NewMessage(
				update.Message.Chat.ID,
				`Использование: /rate {"id": 42, "value": 1}`,
			))
			return err
		}

		// Оценивать можно только существующие опубликованные новости
		if _, err := news.NewsByID(ctx, args.ID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "❌ Новость не найдена."))
				return err
			}
			return err
		}

		if err := ratings.Set(ctx, update.Message.From.ID, args.ID, args.Value); err != nil {
			return err
		}

		likes, dislikes, err := ratings.Counts(ctx, args.ID)
		if err != nil {
			return err
		}

		msgText := fmt.Sprintf("✅ Оценка учтена! Сейчас у новости 👍 %d 👎 %d", likes, dislikes)

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText)); err != nil {
			return err
		}

		return nil
	}
}
