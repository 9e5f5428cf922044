package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit"
	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

type UserProvider interface {
	EnsureUser(ctx context.Context, id int64) (model.User, error)
}

// ViewCmdStart создает пользователя при первом обращении
// и показывает меню команд под его роль
func ViewCmdStart(users UserProvider) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		user, err := users.EnsureUser(ctx, update.Message.From.ID)
		if err != nil {
			return err
		}

		msgText := greetingFor(user.Role)

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText)); err != nil {
			return err
		}

		return nil
	}
}

func greetingFor(role model.Role) string {
	common := "📰 /news [категория] - свежие новости\n" +
		"📖 /read <id> - прочитать новость\n" +
		"👍 /rate - оценить новость\n" +
		"🔔 /subscribe <категория> - подписаться\n" +
		"💳 /buy - докупить лимиты\n" +
		"📊 /stats - моя статистика"

	switch role {
	case model.RoleAdmin:
		return "👑 Добро пожаловать, Админ!\n" + common +
			"\n🛠 /setrole, /removerole - управление ролями" +
			"\n🌐 /addsource, /listsources, /togglesource - источники" +
			"\n📋 /pending, /approve, /reject - проверка новостей"
	case model.RoleManager:
		return "🧑‍💼 Привет, Менеджер!\n" + common +
			"\n📋 /pending, /approve, /reject - проверка новостей"
	case model.RoleWriter:
		return "✍️ Привет, Писатель!\n" + common +
			"\n📝 /submit - отправить новость на проверку" +
			"\n📜 /mynews, /editnews - мои новости"
	default:
		return fmt.Sprintf("👋 Привет! Я бот для новостей.\n%s", common)
	}
}
