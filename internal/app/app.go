package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"bocrates/internal/adapters/cache"
	"bocrates/internal/adapters/httpclient"
	"bocrates/internal/api"
	"bocrates/internal/bot"
	"bocrates/internal/config"
	platformhttp "bocrates/internal/platform/http"
	"bocrates/internal/rate"
)

func Run() error {
	cfg, err := config.Init()
	if err != nil {
		return err
	}
	if err := setupLogger(cfg.Logging.Level); err != nil {
		return err
	}
	logrus.Info("✅ Config loaded")

	if cfg.Telegram.Token == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supported := cfg.Rates.Supported()
	if !slices.Contains(supported, "CNY") {
		supported = append(supported, "CNY")
	}
	names := cfg.Rates.Names()

	httpClient := &http.Client{Timeout: time.Duration(cfg.Source.TimeoutSeconds) * time.Second}
	fetcher := httpclient.NewPageClient(httpClient, cfg.Source.URL, cfg.Source.MaxRetries)
	parser := rate.NewParser(supported, names)
	snapshots := rate.NewSnapshotCache(fetcher, parser, time.Duration(cfg.Cache.TTLMinutes)*time.Minute)
	converter := rate.NewConverter(rate.RatePolicy(cfg.Rates.Policy))
	validator := rate.NewValidator(supported)
	svc := rate.NewService(snapshots, converter, validator)
	logrus.Info("✅ Rate service initialized")

	warmUp(ctx, svc)

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return err
	}
	logrus.Infof("✅ Authorized on Telegram account %s", botAPI.Self.UserName)

	if cfg.Telegram.WebhookURL != "" {
		if err := registerWebhook(botAPI, cfg.Telegram); err != nil {
			return err
		}
		logrus.Info("✅ Telegram webhook registered")
	}

	dedup, err := cache.NewUpdateDedup(cfg.Cache.DedupSize)
	if err != nil {
		return err
	}
	defer dedup.Close()

	handler := bot.NewHandler(svc, botAPI, names, cfg.Logging.RedactUserData)
	router := api.NewRouter(cfg.Telegram.WebhookPath, handler, dedup)

	return platformhttp.Start(ctx, cfg.HTTPServer, router)
}

// warmUp primes the snapshot cache so the first user command does not pay the
// fetch latency. Failure is logged and tolerated; the cache retries lazily.
func warmUp(ctx context.Context, svc *rate.Service) {
	warmCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if _, err := svc.Snapshot(warmCtx); err != nil {
		logrus.WithError(err).Warn("Rate snapshot warm-up failed; will retry on demand")
		return
	}
	logrus.Info("✅ Rate snapshot warmed up")
}

func registerWebhook(botAPI *tgbotapi.BotAPI, cfg config.Telegram) error {
	wh, err := tgbotapi.NewWebhook(cfg.WebhookURL + cfg.WebhookPath)
	if err != nil {
		return err
	}
	_, err = botAPI.Request(wh)
	return err
}

func setupLogger(level string) error {
	logrus.SetOutput(os.Stdout)
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(parsed)
	return nil
}
