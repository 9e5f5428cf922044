package notifier

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier доставляет личные сообщения пользователям бота.
// Используется модерацией для уведомления авторов и рассылки подписчикам
type Notifier struct {
	// Инстанс клиента botAPI
	bot *tgbotapi.BotAPI
}

func New(bot *tgbotapi.BotAPI) *Notifier {
	return &Notifier{bot: bot}
}

// Notify отправляет пользователю обычное текстовое сообщение.
// Ошибку доставки решает вызывающая сторона: для модерации она не фатальна
func (n *Notifier) Notify(ctx context.Context, userID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := tgbotapi.NewMessage(userID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return err
	}

	return nil
}
