package main

import (
	"context"
	"errors"
	"os"

	"expenses/internal/amqp"
	"expenses/internal/cli"
	"expenses/internal/config"
	"expenses/internal/log"
	"expenses/internal/sheets/google"
	"expenses/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentWorker)
	logger.Info("Starting expenses-worker")

	cfg := config.Load()
	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	ctx := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, nil)

	mirror, err := google.New(ctx, google.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)

	mirrorWorker := worker.NewMirrorWorker(mirror, logger)

	// With a shared backend the worker can catch up before the first message.
	if cfg.StorageBackend != config.BackendMemory {
		kv, closeStorage, err := cli.OpenStorage(cfg)
		if err != nil {
			logger.Warn("Skipping startup sync, storage unavailable", log.FieldError, err)
		} else {
			logger.Info("Performing startup sync check...")
			if err := mirrorWorker.StartupSync(ctx, kv, cfg.StorageKey); err != nil {
				logger.Error("Failed startup sync check", log.FieldError, err)
			}
			_ = closeStorage()
		}
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	err = client.ConsumeSnapshots(ctx, mirrorWorker.HandleSnapshot)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
