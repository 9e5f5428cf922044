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
	"github.com/kovalyov-valentin/news-portal-bot/internal/limits"
	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
	"github.com/kovalyov-valentin/news-portal-bot/internal/storage"
)

type NewsProvider interface {
	News(ctx context.Context, category string, limit int) ([]model.Article, error)
	NewsByID(ctx context.Context, id int64) (model.Article, error)
}

type RatingCounter interface {
	Counts(ctx context.Context, newsID int64) (likes, dislikes int, err error)
	UserRating(ctx context.Context, userID, newsID int64) (int, error)
}

type Limiter interface {
	Check(ctx context.Context, userID int64, kind model.ActionKind) error
	Spend(ctx context.Context, userID int64, kind model.ActionKind) error
}

// ViewCmdNews показывает последние опубликованные новости,
// опционально по категории: /news sports
func ViewCmdNews(news NewsProvider, ratings RatingCounter, limiter Limiter) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		userID := update.Message.From.ID

		if ok, err := checkViewQuota(ctx, bot, update, limiter, userID); err != nil || !ok {
			return err
		}

		category := strings.TrimSpace(update.Message.CommandArguments())

		articles, err := news.News(ctx, category, 10)
		if err != nil {
			return err
		}

		if len(articles) == 0 {
			if _, err := bot.Send(tgbotapi.NewMessage(
				update.Message.Chat.ID,
				"😔 Новостей пока нет. Попробуйте позже.",
			)); err != nil {
				return err
			}
			return nil
		}

		lines := lo.Map(articles, func(a model.Article, _ int) string {
			return fmt.Sprintf("📰 *%s*\nID: `%d`, категория: %s",
				markup.EscapeForMarkdown(a.Title),
				a.ID,
				markup.EscapeForMarkdown(a.Category),
			)
		})

		reply := tgbotapi.NewMessage(update.Message.Chat.ID, strings.Join(lines, "\n\n"))
		reply.ParseMode = tgbotapi.ModeMarkdownV2

		if _, err := bot.Send(reply); err != nil {
			return err
		}

		// Списываем просмотр только после успешного показа
		return limiter.Spend(ctx, userID, model.ActionView)
	}
}

// ViewCmdRead показывает одну новость целиком: /read 42
func ViewCmdRead(news NewsProvider, ratings RatingCounter, limiter Limiter) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		userID := update.Message.From.ID

		newsID, err := strconv.ParseInt(strings.TrimSpace(update.Message.CommandArguments()), 10, 64)
		if err != nil {
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /read <id новости>"))
			return err
		}

		if ok, err := checkViewQuota(ctx, bot, update, limiter, userID); err != nil || !ok {
			return err
		}

		article, err := news.NewsByID(ctx, newsID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "❌ Новость не найдена."))
				return err
			}
			return err
		}

		likes, dislikes, err := ratings.Counts(ctx, article.ID)
		if err != nil {
			return err
		}

		msgText := fmt.Sprintf(
			"📰 *%s*\n\n%s\n\nКатегория: %s\n👍 %d 👎 %d",
			markup.EscapeForMarkdown(article.Title),
			markup.EscapeForMarkdown(article.Description),
			markup.EscapeForMarkdown(article.Category),
			likes,
			dislikes,
		)
		if article.ImageURL != "" {
			msgText += fmt.Sprintf("\n🖼 %s", markup.EscapeForMarkdown(article.ImageURL))
		}

		reply := tgbotapi.NewMessage(update.Message.Chat.ID, msgText)
		reply.ParseMode = tgbotapi.ModeMarkdownV2

		if _, err := bot.Send(reply); err != nil {
			return err
		}

		return limiter.Spend(ctx, userID, model.ActionView)
	}
}

// Проверка лимита просмотров. Если лимит кончился, показываем счетчики
// и подсказываем, как докупить. false - действие продолжать нельзя
func checkViewQuota(
	ctx context.Context,
	bot *tgbotapi.BotAPI,
	update tgbotapi.Update,
	limiter Limiter,
	userID int64,
) (bool, error) {
	err := limiter.Check(ctx, userID, model.ActionView)
	if err == nil {
		return true, nil
	}

	var exceeded *limits.ExceededError
	if errors.As(err, &exceeded) {
		msgText := fmt.Sprintf(
			"🚫 Лимит просмотров исчерпан: %d/%d.\nДокупить: /buy {\"kind\": \"view\", \"quantity\": 10}",
			exceeded.Used,
			exceeded.Limit,
		)
		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText)); err != nil {
			return false, err
		}
		return false, nil
	}

	return false, err
}
