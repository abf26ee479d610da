package memory

import (
	"context"
	"sync"

	"github.com/paulobarcelos/runway-compass-sub000/internal/core"
	ports "github.com/paulobarcelos/runway-compass-sub000/internal/sheets"
)

// Store is an in-memory backend implementing every port. It backs the
// default DATA_BACKEND and doubles as the test collaborator for services.
type Store struct {
	mu sync.Mutex

	accounts    []core.Account
	diagnostics []core.AccountDiagnostic
	snapshots   []core.SnapshotBalance
	budgets     []core.BudgetAllocation
	cashFlows   []core.CashFlowEntry
	categories  []core.BudgetCategory
	plan        []core.BudgetPlanRecord
	projection  []core.ProjectionRecord
}

var (
	_ ports.BudgetReader     = (*Store)(nil)
	_ ports.CashFlowReader   = (*Store)(nil)
	_ ports.SnapshotReader   = (*Store)(nil)
	_ ports.AccountReader    = (*Store)(nil)
	_ ports.ProjectionWriter = (*Store)(nil)
	_ ports.CategoryReader   = (*Store)(nil)
	_ ports.BudgetPlanReader = (*Store)(nil)
	_ ports.BudgetPlanWriter = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// NewSeeded returns a store pre-populated with a small demo ledger so the
// memory backend is usable out of the box.
func NewSeeded() *Store {
	s := New()
	s.accounts = []core.Account{
		{AccountID: "checking", Name: "Checking", IncludeInRunway: true},
		{AccountID: "savings", Name: "Savings", IncludeInRunway: true},
		{AccountID: "pension", Name: "Pension", IncludeInRunway: false},
	}
	s.snapshots = []core.SnapshotBalance{
		{AccountID: "checking", Date: "2025-01-02", Balance: 2400},
		{AccountID: "savings", Date: "2025-01-02", Balance: 6100},
		{AccountID: "pension", Date: "2025-01-02", Balance: 40000},
	}
	s.categories = []core.BudgetCategory{
		{CategoryID: "rent", Name: "Rent", Currency: "EUR", MonthlyBudget: 900, SortOrder: 1},
		{CategoryID: "groceries", Name: "Groceries", Currency: "EUR", MonthlyBudget: 350, RolloverFlag: true, SortOrder: 2},
		{CategoryID: "leisure", Name: "Leisure", Currency: "EUR", MonthlyBudget: 150, RolloverFlag: true, SortOrder: 3},
	}
	s.budgets = []core.BudgetAllocation{
		{CategoryID: "rent", Month: 1, Year: 2025, Amount: 900},
		{CategoryID: "groceries", Month: 1, Year: 2025, Amount: 350},
		{CategoryID: "leisure", Month: 1, Year: 2025, Amount: 150},
	}
	return s
}

func (s *Store) SetAccounts(accounts []core.Account, diagnostics []core.AccountDiagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append([]core.Account(nil), accounts...)
	s.diagnostics = append([]core.AccountDiagnostic(nil), diagnostics...)
}

func (s *Store) SetSnapshots(snapshots []core.SnapshotBalance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append([]core.SnapshotBalance(nil), snapshots...)
}

func (s *Store) SetBudgets(budgets []core.BudgetAllocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets = append([]core.BudgetAllocation(nil), budgets...)
}

func (s *Store) SetCashFlows(flows []core.CashFlowEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cashFlows = append([]core.CashFlowEntry(nil), flows...)
}

func (s *Store) SetCategories(categories []core.BudgetCategory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append([]core.BudgetCategory(nil), categories...)
}

func (s *Store) ListMonthlyBudgets(_ context.Context) ([]core.BudgetAllocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.BudgetAllocation(nil), s.budgets...), nil
}

func (s *Store) ListCashFlows(_ context.Context) ([]core.CashFlowEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CashFlowEntry(nil), s.cashFlows...), nil
}

func (s *Store) ListSnapshots(_ context.Context) ([]core.SnapshotBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SnapshotBalance(nil), s.snapshots...), nil
}

func (s *Store) ListAccounts(_ context.Context) (core.AccountBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.AccountBundle{
		Accounts:    append([]core.Account(nil), s.accounts...),
		Diagnostics: append([]core.AccountDiagnostic(nil), s.diagnostics...),
	}, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.BudgetCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.BudgetCategory(nil), s.categories...), nil
}

func (s *Store) ListBudgetPlanRecords(_ context.Context) ([]core.BudgetPlanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.BudgetPlanRecord(nil), s.plan...), nil
}

func (s *Store) SaveBudgetPlanRecords(_ context.Context, records []core.BudgetPlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID := make(map[string]int, len(s.plan))
	for i, rec := range s.plan {
		byID[rec.RecordID] = i
	}
	for _, rec := range records {
		if i, ok := byID[rec.RecordID]; ok {
			s.plan[i] = rec
			continue
		}
		byID[rec.RecordID] = len(s.plan)
		s.plan = append(s.plan, rec)
	}
	return nil
}

func (s *Store) SaveProjection(_ context.Context, rows []core.ProjectionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projection = append([]core.ProjectionRecord(nil), rows...)
	return nil
}

// Projection returns the last saved projection rows.
func (s *Store) Projection() []core.ProjectionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ProjectionRecord(nil), s.projection...)
}
