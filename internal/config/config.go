package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	TelegramToken      string        `env:"TELEGRAM_TOKEN,required"`
	WebhookSecretToken string        `env:"TELEGRAM_WEBHOOK_TOKEN,required"`
	ListenAddr         string        `env:"LISTEN_ADDR" envDefault:":8080"`

	RedisAddr      string `env:"REDIS_ADDR,required"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisSessionDB int    `env:"REDIS_SESSION_DB" envDefault:"0"`
	RedisLocaleDB  int    `env:"REDIS_LOCALE_DB" envDefault:"1"`
	RedisReviewDB  int    `env:"REDIS_REVIEW_DB" envDefault:"2"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	UserServiceURL     string        `env:"USER_SERVICE_URL,required"`
	UserServiceTimeout time.Duration `env:"USER_SERVICE_TIMEOUT" envDefault:"10s"`

	CatalogServiceURL     string        `env:"TRAINING_PLAN_SERVICE_URL,required"`
	CatalogServiceTimeout time.Duration `env:"TRAINING_PLAN_SERVICE_TIMEOUT" envDefault:"10s"`

	PaymentServiceURL     string        `env:"PAYMENT_SERVICE_URL,required"`
	PaymentServiceTimeout time.Duration `env:"PAYMENT_SERVICE_TIMEOUT" envDefault:"10s"`

	ReviewChatIDs []int64 `env:"REVIEW_CHAT_IDS,required" envSeparator:","`
	AdminIDs      []int64 `env:"ADMIN_IDS" envSeparator:","`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.ReviewChatIDs) == 0 {
		return nil, fmt.Errorf("at least one review chat ID is required")
	}

	return &cfg, nil
}
