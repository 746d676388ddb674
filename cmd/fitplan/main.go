package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fitplan-bot/internal/bot"
	"fitplan-bot/internal/catalog"
	"fitplan-bot/internal/config"
	"fitplan-bot/internal/i18n"
	"fitplan-bot/internal/payment"
	"fitplan-bot/internal/review"
	"fitplan-bot/internal/server"
	"fitplan-bot/internal/session"
	"fitplan-bot/internal/user"
	"fitplan-bot/pkg/logger"
	"fitplan-bot/pkg/redis"
)

// ENTRY POINT

func main() {
	zapLogger, err := logger.New()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("Failed to load config", zap.Error(err))
	}

	sessionRedis := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisSessionDB)
	defer sessionRedis.Close()
	localeRedis := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisLocaleDB)
	defer localeRedis.Close()
	reviewRedis := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisReviewDB)
	defer reviewRedis.Close()

	localizer, err := i18n.New(localeRedis, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to load locale catalogs", zap.Error(err))
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		zapLogger.Fatal("Failed to create bot API", zap.Error(err))
	}
	zapLogger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	tgBot := bot.New(
		botAPI,
		session.NewStore(sessionRedis, cfg.SessionTTL),
		review.NewStore(reviewRedis),
		catalog.NewClient(cfg.CatalogServiceURL, cfg.CatalogServiceTimeout, zapLogger),
		user.NewClient(cfg.UserServiceURL, cfg.UserServiceTimeout, zapLogger),
		payment.NewClient(cfg.PaymentServiceURL, cfg.PaymentServiceTimeout, zapLogger),
		localizer,
		cfg,
		zapLogger,
	)

	srv := server.New(cfg.ListenAddr, cfg.WebhookSecretToken, tgBot, zapLogger)

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server stopped with error", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		zapLogger.Error("Failed to stop server gracefully", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}
