// Package cli provides the bootstrap steps shared by cmd/expenses,
// cmd/expenses-worker and cmd/expensectl.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"expenses/internal/config"
	"expenses/internal/log"
	"expenses/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from LOG_LEVEL and installs it as
// the slog default.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenStorage opens the key-value backend selected by cfg. The returned
// close function is never nil.
func OpenStorage(cfg *config.Config) (storage.KeyValue, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageBackend {
	case config.BackendMemory:
		return storage.NewMemory(), noop, nil
	case config.BackendFile:
		fs, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, noop, fmt.Errorf("open file storage: %w", err)
		}
		return fs, noop, nil
	case config.BackendSQLite:
		if dir := filepath.Dir(cfg.SQLiteDBPath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, noop, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite storage: %w", err)
		}
		return repo, repo.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. The
// cleanup function runs once, bounded by timeout, before the context is
// cancelled.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		}
	}()

	return ctx
}
