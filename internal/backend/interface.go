package backend

import (
	"context"

	"github.com/paulobarcelos/runway-compass-sub000/internal/sheets"
)

// Backend is a store that serves every port the services need.
type Backend interface {
	sheets.BudgetReader
	sheets.CashFlowReader
	sheets.SnapshotReader
	sheets.AccountReader
	sheets.ProjectionWriter
	sheets.CategoryReader
	sheets.BudgetPlanReader
	sheets.BudgetPlanWriter
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result contains the backend instance and optional cleanup function.
type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID string
}

// Type selects the storage backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	SheetsBackend Type = "sheets"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
