package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spendy/internal/amqp"
	"spendy/internal/config"
	"spendy/internal/genai"
	apphttp "spendy/internal/http"
	"spendy/internal/ingest"
	applog "spendy/internal/log"
	"spendy/internal/session"
	"spendy/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: applog.ComponentApp})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Choose snapshot backend (default: memory)
	var store storage.SnapshotStore
	switch cfg.DataBackend {
	case "sqlite":
		sqliteStore, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer sqliteStore.Close()
		store = sqliteStore
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		store = storage.NewMemoryStore()
		logger.Info("Initialized memory backend")
	}

	// AMQP icon job publisher (optional)
	var publisher session.IconPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP icon jobs enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	sess := session.New(store, publisher)

	// Gemini vision client (optional)
	var vision genai.Client
	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewGeminiClient(genai.Config{
			APIKey:      cfg.GeminiAPIKey,
			VisionModel: cfg.GeminiVisionModel,
			ImageModel:  cfg.GeminiImageModel,
		})
		if err != nil {
			logger.Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		vision = client
		logger.Info("Image analysis enabled")
	} else {
		logger.Info("Image analysis disabled - no GEMINI_API_KEY provided")
	}

	// Google Sheets ingestion (optional)
	var sheet apphttp.SheetFetcher
	if cfg.SheetsSpreadsheetID != "" {
		reader, err := ingest.NewSheetReader(context.Background(), ingest.SheetConfig{
			SpreadsheetID:   cfg.SheetsSpreadsheetID,
			ReadRange:       cfg.SheetsReadRange,
			CredentialsJSON: []byte(cfg.SheetsCredentialsJSON),
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets reader", "error", err)
			os.Exit(1)
		}
		sheet = reader
		logger.Info("Spreadsheet ingestion enabled", "spreadsheet_id", cfg.SheetsSpreadsheetID)
	} else {
		logger.Info("Spreadsheet ingestion disabled - no SHEETS_SPREADSHEET_ID provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, sess, store, apphttp.Options{
		Vision:         vision,
		Sheet:          sheet,
		MaxUploadBytes: int64(cfg.MaxUploadBytes),
		Logger:         logger,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 120 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting spendy server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
