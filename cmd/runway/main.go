package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/paulobarcelos/runway-compass-sub000/internal/amqp"
	"github.com/paulobarcelos/runway-compass-sub000/internal/backend"
	"github.com/paulobarcelos/runway-compass-sub000/internal/config"
	applog "github.com/paulobarcelos/runway-compass-sub000/internal/log"
	"github.com/paulobarcelos/runway-compass-sub000/internal/services"
)

// runway runs one-shot operations against the configured backend:
//
//	runway refresh            rebuild the runway projection and save it
//	runway plan [YYYY-MM]     print the budget plan grid (default: this month)
//	runway request-refresh    publish a refresh request to the queue
func main() {
	// Load .env for local development; ignore errors in production.
	_ = godotenv.Load()

	logger := applog.Setup("runway")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	command := "refresh"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx := context.Background()

	if command == "request-refresh" {
		if err := requestRefresh(ctx, cfg); err != nil {
			logger.Error("Failed to publish refresh request", "error", err)
			os.Exit(1)
		}
		return
	}

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

	switch command {
	case "refresh":
		refresh := services.NewRefreshService(store, store, store, store, store, services.RefreshConfig{
			WarningThreshold: cfg.WarningBalanceThreshold,
			DangerThreshold:  cfg.DangerBalanceThreshold,
			MonthsToProject:  cfg.MonthsToProject,
		})
		res, err := refresh.Refresh(ctx)
		if err != nil {
			logger.Error("Refresh failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Refresh completed", "rows_written", res.RowsWritten, "updated_at", res.UpdatedAt)

	case "plan":
		startDate := time.Now().UTC().Format("2006-01")
		if len(os.Args) > 2 {
			startDate = os.Args[2]
		}
		plan := services.NewPlanService(store, store, store)
		grid, err := plan.LoadGrid(ctx, startDate)
		if err != nil {
			logger.Error("Failed to build budget plan grid", "error", err, "start", startDate)
			os.Exit(1)
		}
		printGrid(grid)

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want refresh, plan or request-refresh)\n", command)
		os.Exit(2)
	}
}

func requestRefresh(ctx context.Context, cfg *config.Config) error {
	if cfg.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL is not configured")
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.PublishRefreshRequest(ctx, cfg.GoogleSpreadsheetID, "cli")
}
