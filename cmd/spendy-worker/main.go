package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"spendy/internal/amqp"
	"spendy/internal/config"
	"spendy/internal/genai"
	applog "spendy/internal/log"
	"spendy/internal/storage"
	"spendy/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting spendy-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the icon worker")
		os.Exit(1)
	}
	if cfg.GeminiAPIKey == "" {
		logger.Error("GEMINI_API_KEY is required for the icon worker")
		os.Exit(1)
	}

	// Icons are stored next to the snapshots
	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	ai, err := genai.NewGeminiClient(genai.Config{
		APIKey:     cfg.GeminiAPIKey,
		ImageModel: cfg.GeminiImageModel,
	})
	if err != nil {
		logger.Error("Failed to initialize Gemini client", "error", err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	iconWorker := worker.NewIconWorker(store, ai)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeIconJobs(ctx, func(msg *amqp.IconJobMessage) error {
			return iconWorker.HandleIconJob(ctx, msg)
		})
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down worker...")
		return ctx.Err()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
