package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/kovalyov-valentin/news-portal-bot/internal/bot"
	"github.com/kovalyov-valentin/news-portal-bot/internal/bot/middleware"
	"github.com/kovalyov-valentin/news-portal-bot/internal/botkit"
	"github.com/kovalyov-valentin/news-portal-bot/internal/config"
	"github.com/kovalyov-valentin/news-portal-bot/internal/fetcher"
	"github.com/kovalyov-valentin/news-portal-bot/internal/limits"
	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
	"github.com/kovalyov-valentin/news-portal-bot/internal/moderation"
	"github.com/kovalyov-valentin/news-portal-bot/internal/notifier"
	"github.com/kovalyov-valentin/news-portal-bot/internal/payment"
	"github.com/kovalyov-valentin/news-portal-bot/internal/rating"
	"github.com/kovalyov-valentin/news-portal-bot/internal/storage"
	"github.com/kovalyov-valentin/news-portal-bot/internal/translate"
)

func main() {
	// Создаем бота, используя токен из конфига
	botAPI, err := tgbotapi.NewBotAPI(config.Get().TelegramBotToken)
	if err != nil {
		log.Printf("failed to create bot: %v", err)
		return
	}

	// Инициализируем подключение к БД.
	// База у нас встроенная, файл рядом с ботом
	db, err := sqlx.Connect("sqlite", config.Get().DatabasePath)
	if err != nil {
		log.Printf("failed to connect to database: %v", err)
		return
	}
	defer db.Close()

	// У sqlite один писатель, поэтому соединение одно:
	// конкурентные запросы сериализует пул
	db.SetMaxOpenConns(1)

	// Graceful Shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Схема создается идемпотентно, отдельного шага миграции нет
	if err := storage.InitSchema(ctx, db); err != nil {
		log.Printf("failed to init database schema: %v", err)
		return
	}

	// Инициализируем наши зависимости
	var (
		userStorage         = storage.NewUserStorage(db, config.Get().ViewLimit, config.Get().CreateLimit)
		newsStorage         = storage.NewNewsStorage(db)
		ratingStorage       = storage.NewRatingStorage(db)
		sourceStorage       = storage.NewSourceStorage(db)
		subscriptionStorage = storage.NewSubscriptionStorage(db)
		purchaseStorage     = storage.NewPurchaseStorage(db)

		limiter       = limits.NewLimiter(userStorage)
		userNotifier  = notifier.New(botAPI)
		moderationSvc = moderation.NewService(newsStorage, userStorage, subscriptionStorage, userNotifier, limiter)
		ratingSvc     = rating.NewService(ratingStorage)

		translator = translate.NewOpenAITranslator(config.Get().OpenAIKey, config.Get().TargetLanguage)
		gateway    = payment.NewYookassaClient(
			config.Get().YookassaShopID,
			config.Get().YookassaSecretKey,
			config.Get().YookassaReturnURL,
		)

		feedFetcher = fetcher.New(
			sourceStorage,
			moderationSvc,
			translator,
			newsStorage,
			config.Get().FetchInterval,
			config.Get().SourceFetchLimit,
			config.Get().FilterKeywords,
			config.Get().AutoApproveFeeds,
			config.Get().Retention,
		)
	)

	// Первый админ назначается из конфига, дальше роли раздаются командами
	if adminID := config.Get().AdminID; adminID != 0 {
		if err := userStorage.SetRole(ctx, adminID, model.RoleAdmin); err != nil {
			log.Printf("[ERROR] failed to set admin role: %v", err)
			return
		}
	}

	// Инициализируем нашего бота и роутим команды на view.
	// Команды модерации и администрирования обернуты в middleware по ролям
	newsBot := botkit.New(botAPI)

	newsBot.RegisterCmdView("start", bot.ViewCmdStart(userStorage))
	newsBot.RegisterCmdView("news", bot.ViewCmdNews(newsStorage, ratingSvc, limiter))
	newsBot.RegisterCmdView("read", bot.ViewCmdRead(newsStorage, ratingSvc, limiter))
	newsBot.RegisterCmdView("rate", bot.ViewCmdRate(newsStorage, ratingSvc))
	newsBot.RegisterCmdView("stats", bot.ViewCmdStats(userStorage))

	newsBot.RegisterCmdView("subscribe", bot.ViewCmdSubscribe(subscriptionStorage))
	newsBot.RegisterCmdView("unsubscribe", bot.ViewCmdUnsubscribe(subscriptionStorage))
	newsBot.RegisterCmdView("subscriptions", bot.ViewCmdSubscriptions(subscriptionStorage))

	newsBot.RegisterCmdView("buy", bot.ViewCmdBuy(gateway))
	newsBot.RegisterCmdView("checkpayment", bot.ViewCmdCheckPayment(gateway, limiter, purchaseStorage))

	// Роль писателя проверяет сам пайплайн модерации,
	// поэтому здесь middleware не нужен
	newsBot.RegisterCmdView("submit", bot.ViewCmdSubmit(moderationSvc))
	newsBot.RegisterCmdView("mynews", bot.ViewCmdMyNews(newsStorage))
	newsBot.RegisterCmdView("editnews", bot.ViewCmdEditNews(moderationSvc))

	newsBot.RegisterCmdView(
		"pending",
		middleware.RoleOnly(userStorage, bot.ViewCmdPending(moderationSvc), model.RoleManager, model.RoleAdmin),
	)
	newsBot.RegisterCmdView(
		"approve",
		middleware.RoleOnly(userStorage, bot.ViewCmdApprove(moderationSvc), model.RoleManager, model.RoleAdmin),
	)
	newsBot.RegisterCmdView(
		"reject",
		middleware.RoleOnly(userStorage, bot.ViewCmdReject(moderationSvc), model.RoleManager, model.RoleAdmin),
	)

	newsBot.RegisterCmdView(
		"setrole",
		middleware.RoleOnly(userStorage, bot.ViewCmdSetRole(userStorage), model.RoleAdmin),
	)
	newsBot.RegisterCmdView(
		"removerole",
		middleware.RoleOnly(userStorage, bot.ViewCmdRemoveRole(userStorage), model.RoleAdmin),
	)
	newsBot.RegisterCmdView(
		"addsource",
		middleware.RoleOnly(userStorage, bot.ViewCmdAddSource(sourceStorage), model.RoleAdmin),
	)
	newsBot.RegisterCmdView(
		"listsources",
		middleware.RoleOnly(userStorage, bot.ViewCmdListSources(sourceStorage), model.RoleAdmin),
	)
	newsBot.RegisterCmdView(
		"togglesource",
		middleware.RoleOnly(userStorage, bot.ViewCmdToggleSource(sourceStorage), model.RoleAdmin),
	)

	// Воркер, который забирает новости из RSS лент
	go func(ctx context.Context) {
		if err := feedFetcher.Start(ctx); err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Printf("[ERROR] failed to start fetcher: %v", err)
				return
			}

			log.Println("fetcher stopped")
		}
	}(ctx)

	// Запуск бота
	if err := newsBot.Run(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("[ERROR] failed to start bot: %v", err)
			return
		}

		log.Println("bot stopped")
	}
}
