package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit"
	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit/markup"
	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
	"github.com/kovalyov-valentin/news-portal-bot/internal/storage"
)

type ModerationService interface {
	Pending(ctx context.Context) ([]model.PendingArticle, error)
	Approve(ctx context.Context, pendingID, reviewerID int64) (model.Article, error)
	Reject(ctx context.Context, pendingID, reviewerID int64) error
}

// ViewCmdPending показывает очередь новостей на проверку.
// Каждый вызов читает базу заново: пока менеджер работает с очередью,
// воркер лент может добавить в нее новые записи
func ViewCmdPending(moderator ModerationService) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		pending, err := moderator.Pending(ctx)
		if err != nil {
			return err
		}

		if len(pending) == 0 {
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "📭 Нет новостей на проверку."))
			return err
		}

		infos := lo.Map(pending, func(p model.PendingArticle, _ int) string {
			return formatPending(p)
		})

		msgText := fmt.Sprintf(
			"📋 Очередь на проверку \\(всего %d\\):\n\n%s\n\nОдобрить: /approve <id>\nОтклонить: /reject <id>",
			len(pending),
			strings.Join(infos, "\n\n"),
		)

		reply := tgbotapi.NewMessage(update.Message.Chat.ID, msgText)
		reply.ParseMode = tgbotapi.ModeMarkdownV2

		if _, err := bot.Send(reply); err != nil {
			return err
		}

		return nil
	}
}

// ViewCmdApprove публикует новость из очереди: /approve 7
func ViewCmdApprove(moderator ModerationService) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		pendingID, err := strconv.ParseInt(strings.TrimSpace(update.Message.CommandArguments()), 10, 64)
		if err != nil {
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /approve <id заявки>"))
			return err
		}

		article, err := moderator.Approve(ctx, pendingID, update.Message.From.ID)
		if err != nil {
			// Заявку мог успеть обработать другой менеджер
			if errors.Is(err, storage.ErrNotFound) {
				_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "ℹ️ Заявка уже обработана."))
				return err
			}
			return err
		}

		msgText := fmt.Sprintf("✅ Новость «%s» опубликована! ID: %d", article.Title, article.ID)

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText)); err != nil {
			return err
		}

		return nil
	}
}

// ViewCmdReject отклоняет новость из очереди: /reject 7
func ViewCmdReject(moderator ModerationService) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		pendingID, err := strconv.ParseInt(strings.TrimSpace(update.Message.CommandArguments()), 10, 64)
		if err != nil {
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /reject <id заявки>"))
			return err
		}

		if err := moderator.Reject(ctx, pendingID, update.Message.From.ID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "ℹ️ Заявка уже обработана."))
				return err
			}
			return err
		}

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "❌ Новость отклонена.")); err != nil {
			return err
		}

		return nil
	}
}

// Вывод форматированной информации о заявке
func formatPending(p model.PendingArticle) string {
	author := "RSS"
	if p.AuthorID != model.FeedAuthorID {
		author = strconv.FormatInt(p.AuthorID, 10)
	}

	return fmt.Sprintf(
		"📰 *%s*\nID: `%d`, категория: %s, автор: %s",
		markup.EscapeForMarkdown(p.Title),
		p.ID,
		markup.EscapeForMarkdown(p.Category),
		markup.EscapeForMarkdown(author),
	)
}
