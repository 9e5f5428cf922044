package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit"
	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
	"github.com/kovalyov-valentin/news-portal-bot/internal/payment"
)

type PaymentGateway interface {
	Enabled() bool
	Create(ctx context.Context, userID int64, kind model.ActionKind, quantity, costRUB int, description string) (payment.Payment, error)
	Check(ctx context.Context, paymentID string) (payment.Payment, error)
}

type QuotaGranter interface {
	Grant(ctx context.Context, userID int64, kind model.ActionKind, amount int) error
}

type PurchaseLedger interface {
	Add(ctx context.Context, userID int64, kind model.ActionKind, amount, cost int) (int64, error)
}

// Цена одной единицы лимита в рублях
var unitPriceRUB = map[model.ActionKind]int{
	model.ActionView:   10,
	model.ActionCreate: 20,
}

// ViewCmdBuy создает платеж на покупку лимитов:
// /buy {"kind": "view", "quantity": 10}
func ViewCmdBuy(gateway PaymentGateway) botkit.ViewFunc {
	type buyArgs struct {
		Kind     model.ActionKind `json:"kind"`
		Quantity int              `json:"quantity"`
	}

	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		if !gateway.Enabled() {
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "💳 Платежи временно недоступны."))
			return err
		}

		args, err := botkit.ParseJSON[buyArgs](update.Message.CommandArguments())
		if err != nil || args.Quantity <= 0 {
			_, err := bot.Send(tgbotapi.NewMessage(
				update.Message.Chat.ID,
				`Использование: /buy {"kind": "view", "quantity": 10}`,
			))
			return err
		}

		price, ok := unitPriceRUB[args.Kind]
		if !ok {
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Вид лимита: view или create."))
			return err
		}

		cost := price * args.Quantity
		description := fmt.Sprintf("Покупка %d лимитов (%s)", args.Quantity, args.Kind)

		pay, err := gateway.Create(ctx, update.Message.From.ID, args.Kind, args.Quantity, cost, description)
		if err != nil {
			return err
		}

		msgText := fmt.Sprintf(
			"💳 Платеж на %d ₽ создан.\nОплатите по ссылке: %s\n\nПосле оплаты проверьте статус:\n/checkpayment %s",
			cost,
			pay.ConfirmationURL,
			pay.ID,
		)

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText)); err != nil {
			return err
		}

		return nil
	}
}

// ViewCmdCheckPayment проверяет статус платежа и начисляет лимиты:
// /checkpayment <id платежа>.
// Уже начисленные платежи запоминаются, чтобы повторная проверка
// не начисляла лимит второй раз
func ViewCmdCheckPayment(gateway PaymentGateway, granter QuotaGranter, ledger PurchaseLedger) botkit.ViewFunc {
	var (
		mu      sync.Mutex
		granted = make(map[string]struct{})
	)

	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		paymentID := strings.TrimSpace(update.Message.CommandArguments())
		if paymentID == "" {
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /checkpayment <id платежа>"))
			return err
		}

		pay, err := gateway.Check(ctx, paymentID)
		if err != nil {
			return err
		}

		if pay.UserID != update.Message.From.ID {
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "🚫 Это не ваш платеж."))
			return err
		}

		switch pay.Status {
		case payment.StatusSucceeded:
			// Начисление идемпотентно в рамках процесса
			mu.Lock()
			_, already := granted[pay.ID]
			if !already {
				granted[pay.ID] = struct{}{}
			}
			mu.Unlock()

			if already {
				_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "ℹ️ Лимиты по этому платежу уже начислены."))
				return err
			}

			if err := granter.Grant(ctx, pay.UserID, pay.ActionKind, pay.Quantity); err != nil {
				return err
			}

			// Запись в журнал покупок - best effort, лимит уже начислен
			cost := unitPriceRUB[pay.ActionKind] * pay.Quantity
			if _, err := ledger.Add(ctx, pay.UserID, pay.ActionKind, pay.Quantity, cost); err != nil {
				log.Printf("[ERROR] recording purchase for payment %s: %v", pay.ID, err)
			}

			msgText := fmt.Sprintf("✅ Оплата прошла! Начислено лимитов (%s): %d", pay.ActionKind, pay.Quantity)
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText))
			return err

		case payment.StatusCanceled:
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "❌ Платеж отменен."))
			return err

		default:
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "⏳ Платеж еще не оплачен, попробуйте позже."))
			return err
		}
	}
}
