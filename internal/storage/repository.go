package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paulobarcelos/runway-compass-sub000/internal/core"
	ports "github.com/paulobarcelos/runway-compass-sub000/internal/sheets"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the local backend: the same ledger tables the
// spreadsheet holds, kept in a single-file database.
type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ ports.BudgetReader     = (*SQLiteRepository)(nil)
	_ ports.CashFlowReader   = (*SQLiteRepository)(nil)
	_ ports.SnapshotReader   = (*SQLiteRepository)(nil)
	_ ports.AccountReader    = (*SQLiteRepository)(nil)
	_ ports.ProjectionWriter = (*SQLiteRepository)(nil)
	_ ports.CategoryReader   = (*SQLiteRepository)(nil)
	_ ports.BudgetPlanReader = (*SQLiteRepository)(nil)
	_ ports.BudgetPlanWriter = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ListMonthlyBudgets(ctx context.Context) ([]core.BudgetAllocation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id, month, year, amount FROM monthly_budgets ORDER BY year, month, category_id`)
	if err != nil {
		return nil, fmt.Errorf("query monthly budgets: %w", err)
	}
	defer rows.Close()

	var out []core.BudgetAllocation
	for rows.Next() {
		var b core.BudgetAllocation
		if err := rows.Scan(&b.CategoryID, &b.Month, &b.Year, &b.Amount); err != nil {
			return nil, fmt.Errorf("scan monthly budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListCashFlows(ctx context.Context) ([]core.CashFlowEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT flow_id, flow_type, status, planned_date, planned_amount, actual_date, actual_amount
		 FROM cash_flows ORDER BY planned_date, flow_id`)
	if err != nil {
		return nil, fmt.Errorf("query cash flows: %w", err)
	}
	defer rows.Close()

	var out []core.CashFlowEntry
	for rows.Next() {
		var (
			f            core.CashFlowEntry
			flowType     string
			status       string
			actualDate   sql.NullString
			actualAmount sql.NullFloat64
		)
		if err := rows.Scan(&f.FlowID, &flowType, &status, &f.PlannedDate, &f.PlannedAmount, &actualDate, &actualAmount); err != nil {
			return nil, fmt.Errorf("scan cash flow: %w", err)
		}
		f.Type = core.FlowType(flowType)
		f.Status = core.FlowStatus(status)
		if actualDate.Valid {
			f.ActualDate = actualDate.String
		}
		if actualAmount.Valid {
			amount := actualAmount.Float64
			f.ActualAmount = &amount
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListSnapshots(ctx context.Context) ([]core.SnapshotBalance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT account_id, snapshot_date, balance FROM account_snapshots ORDER BY account_id, snapshot_date`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []core.SnapshotBalance
	for rows.Next() {
		var s core.SnapshotBalance
		if err := rows.Scan(&s.AccountID, &s.Date, &s.Balance); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListAccounts returns the accounts plus a diagnostic for every
// runway-eligible account that has no snapshot yet.
func (r *SQLiteRepository) ListAccounts(ctx context.Context) (core.AccountBundle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.account_id, a.name, a.include_in_runway,
		        (SELECT COUNT(1) FROM account_snapshots s WHERE s.account_id = a.account_id)
		 FROM accounts a ORDER BY a.account_id`)
	if err != nil {
		return core.AccountBundle{}, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var bundle core.AccountBundle
	for rows.Next() {
		var (
			account       core.Account
			include       int
			snapshotCount int
		)
		if err := rows.Scan(&account.AccountID, &account.Name, &include, &snapshotCount); err != nil {
			return core.AccountBundle{}, fmt.Errorf("scan account: %w", err)
		}
		account.IncludeInRunway = include != 0
		bundle.Accounts = append(bundle.Accounts, account)
		if account.IncludeInRunway && snapshotCount == 0 {
			bundle.Diagnostics = append(bundle.Diagnostics, core.AccountDiagnostic{
				AccountID: account.AccountID,
				Severity:  core.DiagnosticWarning,
				Message:   "runway-eligible account has no balance snapshot",
			})
		}
	}
	return bundle, rows.Err()
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.BudgetCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id, name, currency, monthly_budget, rollover_flag, sort_order
		 FROM categories ORDER BY sort_order, category_id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []core.BudgetCategory
	for rows.Next() {
		var (
			c        core.BudgetCategory
			rollover int
		)
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.Currency, &c.MonthlyBudget, &rollover, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.RolloverFlag = rollover != 0
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListBudgetPlanRecords(ctx context.Context) ([]core.BudgetPlanRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT record_id, category_id, month, year, amount, currency, rollover_balance
		 FROM budget_plan ORDER BY category_id, year, month`)
	if err != nil {
		return nil, fmt.Errorf("query budget plan: %w", err)
	}
	defer rows.Close()

	var out []core.BudgetPlanRecord
	for rows.Next() {
		var rec core.BudgetPlanRecord
		if err := rows.Scan(&rec.RecordID, &rec.CategoryID, &rec.Month, &rec.Year, &rec.Amount, &rec.Currency, &rec.RolloverBalance); err != nil {
			return nil, fmt.Errorf("scan budget plan record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveBudgetPlanRecords(ctx context.Context, records []core.BudgetPlanRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO budget_plan (record_id, category_id, month, year, amount, currency, rollover_balance)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (record_id) DO UPDATE SET
		   amount = excluded.amount,
		   currency = excluded.currency,
		   rollover_balance = excluded.rollover_balance`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.RecordID, rec.CategoryID, rec.Month, rec.Year, rec.Amount, rec.Currency, rec.RolloverBalance); err != nil {
			return fmt.Errorf("upsert budget plan record %s: %w", rec.RecordID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit budget plan: %w", err)
	}

	slog.InfoContext(ctx, "Budget plan saved to SQLite", "records", len(records))
	return nil
}

// SaveProjection replaces the stored projection wholesale; the projection
// is derived data and partial rows from an older run must not survive.
func (r *SQLiteRepository) SaveProjection(ctx context.Context, projectionRows []core.ProjectionRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runway_projection`); err != nil {
		return fmt.Errorf("clear projection: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO runway_projection
		   (year, month, starting_balance, actual_income, actual_expenses,
		    projected_income, projected_expenses, actual_ending_balance,
		    projected_ending_balance, stoplight, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range projectionRows {
		if _, err := stmt.ExecContext(ctx,
			row.Year, row.Month, row.StartingBalance, row.ActualIncome, row.ActualExpenses,
			row.ProjectedIncome, row.ProjectedExpenses, row.ActualEndingBalance,
			row.ProjectedEndingBalance, string(row.Stoplight), row.Notes); err != nil {
			return fmt.Errorf("insert projection row %04d-%02d: %w", row.Year, row.Month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit projection: %w", err)
	}

	slog.InfoContext(ctx, "Runway projection saved to SQLite", "rows", len(projectionRows))
	return nil
}
