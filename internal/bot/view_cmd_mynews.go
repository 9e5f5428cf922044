package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit"
	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit/markup"
	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
	"github.com/kovalyov-valentin/news-portal-bot/internal/moderation"
	"github.com/kovalyov-valentin/news-portal-bot/internal/storage"
)

type WriterNewsProvider interface {
	NewsByAuthor(ctx context.Context, authorID int64) ([]model.Article, error)
	PendingByAuthor(ctx context.Context, authorID int64) ([]model.PendingArticle, error)
}

type Editor interface {
	EditPending(ctx context.Context, pendingID, editorID int64, draft model.Draft) error
	EditPublished(ctx context.Context, newsID, editorID int64, draft model.Draft) error
}

// ViewCmdMyNews показывает писателю его опубликованные новости
// и заявки, которые еще ждут проверки
func ViewCmdMyNews(news WriterNewsProvider) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		authorID := update.Message.From.ID

		published, err := news.NewsByAuthor(ctx, authorID)
		if err != nil {
			return err
		}

		pending, err := news.PendingByAuthor(ctx, authorID)
		if err != nil {
			return err
		}

		if len(published) == 0 && len(pending) == 0 {
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "📭 У вас пока нет новостей."))
			return err
		}

		var sections []string

		if len(published) > 0 {
			lines := lo.Map(published, func(a model.Article, _ int) string {
				return fmt.Sprintf("• *%s* \\(ID: `%d`\\)", markup.EscapeForMarkdown(a.Title), a.ID)
			})
			sections = append(sections, "✅ Опубликованные:\n"+strings.Join(lines, "\n"))
		}

		if len(pending) > 0 {
			lines := lo.Map(pending, func(p model.PendingArticle, _ int) string {
				return fmt.Sprintf("• *%s* \\(заявка `%d`\\)", markup.EscapeForMarkdown(p.Title), p.ID)
			})
			sections = append(sections, "⏳ На проверке:\n"+strings.Join(lines, "\n"))
		}

		reply := tgbotapi.NewMessage(update.Message.Chat.ID, strings.Join(sections, "\n\n"))
		reply.ParseMode = tgbotapi.ModeMarkdownV2

		if _, err := bot.Send(reply); err != nil {
			return err
		}

		return nil
	}
}

// ViewCmdEditNews правит новость автора на месте:
// /editnews {"id": 7, "published": false, "category": "...", "title": "...", "description": "...", "image_url": ""}
// published: true - уже опубликованная новость, false - заявка в очереди
func ViewCmdEditNews(editor Editor) botkit.ViewFunc {
	type editArgs struct {
		ID          int64  `json:"id"`
		Published   bool   `json:"published"`
		Category    string `json:"category"`
		Title       string `json:"title"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
	}

	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		args, err := botkit.ParseJSON[editArgs](update.Message.CommandArguments())
		if err != nil {
			_, err := bot.Send(tgbotapi.NewMessage(
				update.Message.Chat.ID,
				`Использование: /editnews {"id": 7, "published": false, "category": "...", "title": "...", "description": "..."}`,
			))
			return err
		}

		draft := model.Draft{
			Category:    args.Category,
			Title:       args.Title,
			Description: args.Description,
			ImageURL:    args.ImageURL,
		}

		editorID := update.Message.From.ID

		if args.Published {
			err = editor.EditPublished(ctx, args.ID, editorID, draft)
		} else {
			err = editor.EditPending(ctx, args.ID, editorID, draft)
		}

		switch {
		case errors.Is(err, storage.ErrNotFound):
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "❌ Новость не найдена."))
			return err
		case errors.Is(err, moderation.ErrNoAccess):
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "🚫 Редактировать можно только свои новости."))
			return err
		case err != nil:
			return err
		}

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "✅ Новость обновлена!")); err != nil {
			return err
		}

		return nil
	}
}
