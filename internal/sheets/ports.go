package sheets

import (
	"context"

	"github.com/paulobarcelos/runway-compass-sub000/internal/core"
)

// Ports for outbound adapters. Each backend (Google Sheets, SQLite, memory)
// holds its own scope (spreadsheet ID, database path) so the core never
// threads storage details through its calls.
type (
	BudgetReader interface {
		// ListMonthlyBudgets returns per-category monthly allocations;
		// callers aggregate them per month.
		ListMonthlyBudgets(ctx context.Context) ([]core.BudgetAllocation, error)
	}

	CashFlowReader interface {
		ListCashFlows(ctx context.Context) ([]core.CashFlowEntry, error)
	}

	SnapshotReader interface {
		ListSnapshots(ctx context.Context) ([]core.SnapshotBalance, error)
	}

	AccountReader interface {
		// ListAccounts returns the tracked accounts plus any data-quality
		// diagnostics gathered while reading them.
		ListAccounts(ctx context.Context) (core.AccountBundle, error)
	}

	ProjectionWriter interface {
		// SaveProjection replaces the stored projection with rows.
		SaveProjection(ctx context.Context, rows []core.ProjectionRecord) error
	}

	CategoryReader interface {
		ListCategories(ctx context.Context) ([]core.BudgetCategory, error)
	}

	BudgetPlanReader interface {
		ListBudgetPlanRecords(ctx context.Context) ([]core.BudgetPlanRecord, error)
	}

	BudgetPlanWriter interface {
		// SaveBudgetPlanRecords upserts the full flattened plan.
		SaveBudgetPlanRecords(ctx context.Context, records []core.BudgetPlanRecord) error
	}
)
