package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/paulobarcelos/runway-compass-sub000/internal/amqp"
	"github.com/paulobarcelos/runway-compass-sub000/internal/backend"
	"github.com/paulobarcelos/runway-compass-sub000/internal/config"
	applog "github.com/paulobarcelos/runway-compass-sub000/internal/log"
	"github.com/paulobarcelos/runway-compass-sub000/internal/services"
	"github.com/paulobarcelos/runway-compass-sub000/internal/worker"
)

// runway-worker consumes refresh requests from the queue and rebuilds the
// runway projection on each one.
func main() {
	// Load .env for local development; ignore errors in production.
	_ = godotenv.Load()

	logger := applog.Setup("runway-worker")
	logger.Info("Starting runway-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:                backend.Type(cfg.DataBackend),
		SQLiteDBPath:        cfg.SQLiteDBPath,
		GoogleSpreadsheetID: cfg.GoogleSpreadsheetID,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}
	store := result.Backend

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}
	defer client.Close()

	refresh := services.NewRefreshService(store, store, store, store, store, services.RefreshConfig{
		WarningThreshold: cfg.WarningBalanceThreshold,
		DangerThreshold:  cfg.DangerBalanceThreshold,
		MonthsToProject:  cfg.MonthsToProject,
	})

	w := worker.NewRefreshWorker(refresh, client)
	logger.Info("Worker ready", "queue", cfg.AMQPQueue, "backend", cfg.DataBackend)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped")
}
