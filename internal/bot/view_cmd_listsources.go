package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit"
	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit/markup"
	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

type SourceLister interface {
	Sources(ctx context.Context) ([]model.Source, error)
}

// ViewCmdListSources показывает все источники, включая выключенные
func ViewCmdListSources(lister SourceLister) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		sources, err := lister.Sources(ctx)
		if err != nil {
			return err
		}

		var (
			sourceInfos = lo.Map(sources, func(source model.Source, _ int) string {
				return formatSource(source)
			})
			msgText = fmt.Sprintf(
				"Список источников \\(всего %d\\):\n\n%s",
				len(sources),
				strings.Join(sourceInfos, "\n\n"),
			)
		)

		reply := tgbotapi.NewMessage(update.Message.Chat.ID, msgText)
		reply.ParseMode = tgbotapi.ModeMarkdownV2

		if _, err := bot.Send(reply); err != nil {
			return err
		}

		return nil
	}
}

// Вывод форматированной информации об источнике
func formatSource(source model.Source) string {
	status := "🟢 активен"
	if !source.IsActive {
		status = "🔴 выключен"
	}

	return fmt.Sprintf(
		"🌐 ID: `%d` \\(%s\\)\nКатегория: %s\nURL фида: %s",
		source.ID,
		status,
		markup.EscapeForMarkdown(source.Category),
		markup.EscapeForMarkdown(source.URL),
	)
}
