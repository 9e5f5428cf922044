package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit"
	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

type StatsProvider interface {
	Stats(ctx context.Context, userID int64) (model.UserStats, error)
}

// ViewCmdStats показывает пользователю его роль, лимиты и оценки
func ViewCmdStats(stats StatsProvider) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		s, err := stats.Stats(ctx, update.Message.From.ID)
		if err != nil {
			return err
		}

		msgText := fmt.Sprintf(
			"📊 Ваша статистика\n\nРоль: %s\nПросмотры: %d/%d\nПубликации: %d/%d\nВаши оценки: 👍 %d 👎 %d",
			s.Role,
			s.ViewCount,
			s.ViewLimit,
			s.CreateCount,
			s.CreateLimit,
			s.Likes,
			s.Dislikes,
		)

		if s.Role == model.RoleWriter {
			msgText += fmt.Sprintf("\nОпубликовано новостей: %d\nНа проверке: %d", s.PublishedNews, s.PendingNews)
		}

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText)); err != nil {
			return err
		}

		return nil
	}
}
