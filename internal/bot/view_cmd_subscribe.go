package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit"
)

type SubscriptionService interface {
	Subscribe(ctx context.Context, userID int64, category string) (bool, error)
	Unsubscribe(ctx context.Context, userID int64, category string) error
	UserSubscriptions(ctx context.Context, userID int64) ([]string, error)
}

// ViewCmdSubscribe подписывает на категорию: /subscribe sports.
// Подписчики получают уведомление о каждой публикации в категории
func ViewCmdSubscribe(subscriptions SubscriptionService) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		category := strings.TrimSpace(update.Message.CommandArguments())
		if category == "" {
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /subscribe <категория>"))
			return err
		}

		added, err := subscriptions.Subscribe(ctx, update.Message.From.ID, category)
		if err != nil {
			return err
		}

		msgText := fmt.Sprintf("🔔 Вы подписались на категорию %s!", category)
		if !added {
			msgText = fmt.Sprintf("ℹ️ Вы уже подписаны на категорию %s.", category)
		}

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText)); err != nil {
			return err
		}

		return nil
	}
}

// ViewCmdUnsubscribe отписывает от категории: /unsubscribe sports
func ViewCmdUnsubscribe(subscriptions SubscriptionService) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		category := strings.TrimSpace(update.Message.CommandArguments())
		if category == "" {
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /unsubscribe <категория>"))
			return err
		}

		if err := subscriptions.Unsubscribe(ctx, update.Message.From.ID, category); err != nil {
			return err
		}

		msgText := fmt.Sprintf("🔕 Вы отписались от категории %s.", category)

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText)); err != nil {
			return err
		}

		return nil
	}
}

// ViewCmdSubscriptions показывает текущие подписки пользователя
func ViewCmdSubscriptions(subscriptions SubscriptionService) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		categories, err := subscriptions.UserSubscriptions(ctx, update.Message.From.ID)
		if err != nil {
			return err
		}

		msgText := "📭 У вас нет подписок."
		if len(categories) > 0 {
			msgText = "🔔 Ваши подписки: " + strings.Join(categories, ", ")
		}

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText)); err != nil {
			return err
		}

		return nil
	}
}
