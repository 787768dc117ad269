package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
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
	"vizzy-chat/internal/server"
	"vizzy-chat/internal/story"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

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
	stories := story.NewGenerator(story.Options{})

	svc := convo.New(convo.Options{
		Generator: generate.New(generate.Options{
			Images:  cascade,
			Moods:   moods,
			Memory:  messages,
			Stories: stories,
			Logger:  logger,
		}),
		Moods:  moods,
		Memory: messages,
		Logger: logger,
	})

	api := server.New(server.Options{
		Service: svc,
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout,
		IdleTimeout:       90 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server started", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
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
