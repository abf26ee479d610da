package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/paulobarcelos/runway-compass-sub000/internal/core"
	"github.com/paulobarcelos/runway-compass-sub000/internal/sheets"
)

// RefreshConfig carries the projection knobs. Thresholds band the projected
// ending balance; MonthsToProject is the minimum forecast horizon.
type RefreshConfig struct {
	WarningThreshold float64
	DangerThreshold  float64
	MonthsToProject  int
}

// DefaultRefreshConfig returns the stock thresholds and horizon.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		WarningThreshold: 5000,
		DangerThreshold:  2000,
		MonthsToProject:  12,
	}
}

// RefreshResult reports one completed projection refresh.
type RefreshResult struct {
	UpdatedAt   time.Time
	RowsWritten int
}

// RefreshService rebuilds the runway projection from the four upstream
// datasets and writes it back through the projection writer.
type RefreshService struct {
	budgets    sheets.BudgetReader
	cashFlows  sheets.CashFlowReader
	snapshots  sheets.SnapshotReader
	accounts   sheets.AccountReader
	projection sheets.ProjectionWriter
	config     RefreshConfig
	now        func() time.Time
}

func NewRefreshService(
	budgets sheets.BudgetReader,
	cashFlows sheets.CashFlowReader,
	snapshots sheets.SnapshotReader,
	accounts sheets.AccountReader,
	projection sheets.ProjectionWriter,
	config RefreshConfig,
) *RefreshService {
	return &RefreshService{
		budgets:    budgets,
		cashFlows:  cashFlows,
		snapshots:  snapshots,
		accounts:   accounts,
		projection: projection,
		config:     config,
		now:        time.Now,
	}
}

// Refresh fetches budgets, cash flows, snapshots and accounts concurrently,
// rebuilds the projection and saves it in one write. Loader and saver errors
// pass through unchanged; input problems surface as validation errors from
// the engine.
func (s *RefreshService) Refresh(ctx context.Context) (RefreshResult, error) {
	var (
		budgets   []core.BudgetAllocation
		cashFlows []core.CashFlowEntry
		snapshots []core.SnapshotBalance
		bundle    core.AccountBundle
	)

	// The four reads are independent; fail fast on the first error.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.budgets.ListMonthlyBudgets(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cashFlows, err = s.cashFlows.ListCashFlows(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snapshots, err = s.snapshots.ListSnapshots(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bundle, err = s.accounts.ListAccounts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return RefreshResult{}, fmt.Errorf("load projection inputs: %w", err)
	}

	for _, diag := range bundle.Diagnostics {
		slog.WarnContext(ctx, "Account diagnostic",
			"account_id", diag.AccountID,
			"severity", diag.Severity,
			"message", diag.Message)
	}

	eligible := make(map[string]bool, len(bundle.Accounts))
	for _, account := range bundle.Accounts {
		if account.IncludeInRunway {
			eligible[account.AccountID] = true
		}
	}

	// Snapshots of excluded accounts never reach the engine. An empty
	// result here lets the engine raise its own no-snapshots error.
	eligibleSnapshots := make([]core.SnapshotBalance, 0, len(snapshots))
	for _, snap := range snapshots {
		if eligible[snap.AccountID] {
			eligibleSnapshots = append(eligibleSnapshots, snap)
		}
	}

	rows, err := core.BuildRunwayProjection(core.ProjectionInput{
		Budgets:          aggregateBudgets(budgets),
		CashFlows:        cashFlows,
		Snapshots:        eligibleSnapshots,
		WarningThreshold: s.config.WarningThreshold,
		DangerThreshold:  s.config.DangerThreshold,
		MonthsToProject:  s.config.MonthsToProject,
	})
	if err != nil {
		return RefreshResult{}, err
	}

	records := make([]core.ProjectionRecord, len(rows))
	for i, row := range rows {
		records[i] = core.ProjectionRecord{
			Month:                  row.Month,
			Year:                   row.Year,
			StartingBalance:        row.StartingBalance,
			ActualIncome:           row.ActualIncome,
			ActualExpenses:         row.ActualExpenses,
			ProjectedIncome:        row.ProjectedIncome,
			ProjectedExpenses:      row.ProjectedExpenses,
			ActualEndingBalance:    row.ActualEndingBalance,
			ProjectedEndingBalance: row.ProjectedEndingBalance,
			Stoplight:              row.Stoplight,
			Notes:                  row.Notes,
		}
	}

	if err := s.projection.SaveProjection(ctx, records); err != nil {
		return RefreshResult{}, fmt.Errorf("save projection: %w", err)
	}

	result := RefreshResult{UpdatedAt: s.now(), RowsWritten: len(records)}
	slog.InfoContext(ctx, "Runway projection refreshed",
		"rows_written", result.RowsWritten,
		"eligible_accounts", len(eligible),
		"snapshots", len(eligibleSnapshots))
	return result, nil
}

// aggregateBudgets folds per-category allocations into one total per month.
// The engine only cares about the monthly expense forecast, not which
// category it came from.
func aggregateBudgets(budgets []core.BudgetAllocation) []core.BudgetAllocation {
	totals := make(map[core.MonthKey]float64, len(budgets))
	order := make([]core.MonthKey, 0, len(budgets))
	for _, b := range budgets {
		key := core.NewMonthKey(b.Year, b.Month)
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] += b.Amount
	}
	out := make([]core.BudgetAllocation, 0, len(order))
	for _, key := range order {
		year, month := key.Parts()
		out = append(out, core.BudgetAllocation{Month: month, Year: year, Amount: totals[key]})
	}
	core.SortAllocations(out)
	return out
}
