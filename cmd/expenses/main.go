package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"expenses/internal/amqp"
	"expenses/internal/cli"
	apphttp "expenses/internal/http"
	"expenses/internal/log"
	"expenses/internal/store"
	"expenses/internal/table"
	"expenses/internal/websocket"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	storageLogger := logger.WithComponent(log.ComponentStorage)
	kv, closeStorage, err := cli.OpenStorage(cfg)
	if err != nil {
		storageLogger.Error("Failed to open storage", log.FieldError, err, "backend", cfg.StorageBackend)
		os.Exit(1)
	}
	defer func() {
		if err := closeStorage(); err != nil {
			storageLogger.Error("Failed to close storage", log.FieldError, err)
		}
	}()
	storageLogger.Info("Storage opened", "backend", cfg.StorageBackend)

	ctx := context.Background()
	st := store.New(ctx, kv,
		store.WithKey(cfg.StorageKey),
		store.WithLogger(logger.WithComponent(log.ComponentStore).Logger))

	if cfg.SeedSamples && st.SeedIfEmpty(ctx, store.SampleDrafts(time.Now())) {
		logger.Info("Seeded sample expenses", log.FieldOperation, log.OpSeed, log.FieldCount, st.Len())
	}

	sorter, err := table.NewSorter(cfg.SortLocale)
	if err != nil {
		logger.Error("Invalid sort locale", log.FieldError, err, "locale", cfg.SortLocale)
		os.Exit(1)
	}

	var publisher *amqp.Publisher
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()

		publisher = amqp.NewPublisher(client, logger)
		unsubscribe := st.Subscribe(publisher.Offer)
		defer unsubscribe()
		logger.Info("Publishing expense snapshots", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	wsHandler := websocket.NewHandler(websocket.Options{
		Store:          st,
		Sorter:         sorter,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	var ready func(context.Context) error
	if pinger, ok := kv.(interface{ Ping(context.Context) error }); ok {
		ready = pinger.Ping
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		Store:              st,
		Sorter:             sorter,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		WebSocket:          wsHandler,
		Ready:              ready,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx = cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		wsHandler.Shutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting expenses server", "port", cfg.Port, "backend", cfg.StorageBackend, "expenses", st.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if publisher != nil {
		g.Go(func() error { return publisher.Run(gctx) })
	}
	g.Go(func() error {
		// A failed listener cancels gctx; make sure the server is closed too.
		<-gctx.Done()
		return srv.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
