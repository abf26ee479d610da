package backend

import (
	"context"
	"fmt"
	"log/slog"

	gsheet "github.com/paulobarcelos/runway-compass-sub000/internal/sheets/google"
	"github.com/paulobarcelos/runway-compass-sub000/internal/sheets/memory"
	"github.com/paulobarcelos/runway-compass-sub000/internal/storage"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory.
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	default:
		return f.createMemoryBackend()
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &Result{Backend: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*Result, error) {
	cli, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.GoogleSpreadsheetID)

	return &Result{Backend: cli, Cleanup: nil}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*Result, error) {
	store := memory.NewSeeded()

	f.logger.Info("Initialized memory backend")

	return &Result{Backend: store, Cleanup: nil}, nil
}
