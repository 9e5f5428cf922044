package config

import (
	"log"
	"sync"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
)

// Конфиг храним в файле в формате hcl.
// Также указываем ключи для переменных окружения
type Config struct {
	TelegramBotToken string `hcl:"telegram_bot_token" env:"TELEGRAM_BOT_TOKEN" required:"true"`
	DatabasePath     string `hcl:"database_path" env:"DATABASE_PATH" default:"news_bot.db"`

	// Настройки воркера, который забирает новости из RSS лент
	FetchInterval    time.Duration `hcl:"fetch_interval" env:"FETCH_INTERVAL" default:"5m"`
	SourceFetchLimit int           `hcl:"source_fetch_limit" env:"SOURCE_FETCH_LIMIT" default:"5"`
	FilterKeywords   []string      `hcl:"filter_keywords" env:"FILTER_KEYWORDS"`
	// Публиковать ли новости из лент сразу, минуя проверку менеджером.
	// По умолчанию выключено: все новости идут через общую очередь.
	AutoApproveFeeds bool `hcl:"auto_approve_feeds" env:"AUTO_APPROVE_FEEDS" default:"false"`
	// Сколько хранить опубликованные новости. 0 - хранить вечно
	Retention time.Duration `hcl:"retention" env:"RETENTION" default:"0"`

	// Дефолтные лимиты для новых пользователей
	ViewLimit   int `hcl:"view_limit" env:"VIEW_LIMIT" default:"10"`
	CreateLimit int `hcl:"create_limit" env:"CREATE_LIMIT" default:"5"`

	// Перевод новостей из лент. Если ключ пустой, перевод выключен
	OpenAIKey      string `hcl:"openai_key" env:"OPENAI_KEY"`
	TargetLanguage string `hcl:"target_language" env:"TARGET_LANGUAGE" default:"русский"`

	// Платежи через ЮKassa
	YookassaShopID    string `hcl:"yookassa_shop_id" env:"YOOKASSA_SHOP_ID"`
	YookassaSecretKey string `hcl:"yookassa_secret_key" env:"YOOKASSA_SECRET_KEY"`
	YookassaReturnURL string `hcl:"yookassa_return_url" env:"YOOKASSA_RETURN_URL"`

	// id пользователя, который получает роль admin при первом запуске
	AdminID int64 `hcl:"admin_id" env:"ADMIN_ID"`
}

// cfg - инстанс конфига, в который мы будем читать данные
// И once, которая гарантирует что чтение выполнится не более одного раза,
// поскольку конфиг запрашивается из разных мест и в произвольном порядке
var (
	cfg  Config
	once sync.Once
)

// Метод get, который возвращает конфиг
func Get() Config {
	once.Do(func() {
		loader := aconfig.LoaderFor(&cfg, aconfig.Config{
			// Префикс для переменных окружения, чтобы они случайно
			// не пересеклись с переменными других программ
			EnvPrefix: "NPB",
			// Пути, где могут лежать конфиги
			Files: []string{"./config.hcl", "./config.local.hcl"},
			FileDecoders: map[string]aconfig.FileDecoder{
				".hcl": aconfighcl.New(),
			},
		})

		if err := loader.Load(); err != nil {
			log.Printf("[ERROR] failed to load config: %v", err)
		}
	})

	return cfg
}
