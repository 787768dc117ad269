package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"vizzy-chat/internal/config"
	"vizzy-chat/internal/convo"
	"vizzy-chat/internal/generate"
	"vizzy-chat/internal/httpclient"
	"vizzy-chat/internal/memory"
	"vizzy-chat/internal/mood"
	"vizzy-chat/internal/provider"
	"vizzy-chat/internal/story"
	"vizzy-chat/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if cfg.TelegramToken == "" {
		panic(errors.New("TELEGRAM_BOT_TOKEN is required"))
	}

	logger := newLogger(cfg)

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	tg, err := telegram.New(telegram.Options{
		Token:      cfg.TelegramToken,
		HTTPClient: httpClient,
		Logger:     logger,
		Debug:      cfg.Debug,
	})
	if err != nil {
		logger.Error("telegram init failed", "err", err)
		os.Exit(1)
	}

	cascade := provider.NewCascade(provider.CascadeOptions{
		Providers: []provider.Provider{
			provider.NewInferenceAPI(provider.InferenceAPIOptions{
				URL:        cfg.HFModelURL,
				Token:      cfg.HFAPIToken,
				HTTPClient: httpClient,
			}),
			provider.NewSpace(provider.SpaceOptions{
				URL:        cfg.HFSpaceURL,
				HTTPClient: httpClient,
				Logger:     logger,
				Retries:    cfg.SpaceRetries,
				RetryDelay: cfg.SpaceRetryDelay,
			}),
		},
		Timeout: cfg.ProviderTimeout,
		Logger:  logger,
	})

	moods := mood.NewTracker(mood.Options{TTL: cfg.MoodTTL})
	messages := memory.NewStore(memory.Options{MaxMessages: cfg.MaxMemoryMessages})

	svc := convo.New(convo.Options{
		Generator: generate.New(generate.Options{
			Images:  cascade,
			Moods:   moods,
			Memory:  messages,
			Stories: story.NewGenerator(story.Options{}),
			Logger:  logger,
		}),
		Moods:  moods,
		Memory: messages,
		Logger: logger,
	})

	handler := &botHandler{tg: tg, svc: svc, logger: logger}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("bot started", "username", tg.Username())

	updates := tg.Updates(30 * time.Second)
	defer tg.StopUpdates()

	sem := make(chan struct{}, cfg.MaxConcurrent)
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case update, ok := <-updates:
			if !ok {
				logger.Info("updates channel closed")
				return
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}

			go func(update telegram.Update) {
				defer func() { <-sem }()

				reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
				defer cancel()

				if err := handler.handleUpdate(reqCtx, update); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("handle update failed", "err", err)
				}
			}(update)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
