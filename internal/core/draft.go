package core

import "strings"

// BudgetPlanDraft is an editable copy of a plan grid, owned by a single
// editing session. The baseline keeps the values the grid had at draft
// creation so dirtiness is an exact comparison, not a sticky flag; it is
// never mutated. The draft is discarded after save or reset, it is never
// the system of record.
type BudgetPlanDraft struct {
	Grid     *BudgetPlanGrid
	baseline *BudgetPlanGrid
}

// MoneyChange is one point edit to a draft cell.
type MoneyChange struct {
	CategoryID string
	MonthIndex int
	Amount     float64
	Currency   string
}

// NewBudgetPlanDraft deep-clones the grid twice: once as the working copy
// and once as the frozen baseline. No cell is shared with the source grid.
func NewBudgetPlanDraft(grid *BudgetPlanGrid) *BudgetPlanDraft {
	return &BudgetPlanDraft{
		Grid:     grid.Clone(),
		baseline: grid.Clone(),
	}
}

// ApplyMoneyChange updates one cell's amount and currency, then recomputes
// the whole row's rollover chain: editing month k changes the carried
// balance of every month after k, and the chain is cheap enough to rebuild
// from the start.
func (d *BudgetPlanDraft) ApplyMoneyChange(change MoneyChange) error {
	if !isFinite(change.Amount) {
		return newValidationError("money change", "non-finite amount for category %q", change.CategoryID)
	}
	if change.MonthIndex < 0 || change.MonthIndex >= len(d.Grid.Months) {
		return newValidationError("money change", "month index %d out of range", change.MonthIndex)
	}
	row := d.rowFor(change.CategoryID)
	if row == nil {
		return newValidationError("money change", "unknown category %q", change.CategoryID)
	}

	cell := &row.Cells[change.MonthIndex]
	cell.Amount = change.Amount
	if change.Currency != "" {
		cell.Currency = strings.ToUpper(change.Currency)
	}

	amounts := make([]float64, len(row.Cells))
	for i, c := range row.Cells {
		amounts[i] = c.Amount
	}
	if row.Category.RolloverFlag {
		for i, balance := range RolloverBalances(row.Category.MonthlyBudget, amounts) {
			row.Cells[i].RolloverBalance = balance
		}
	} else {
		for i := range row.Cells {
			row.Cells[i].RolloverBalance = 0
		}
	}
	return nil
}

// Dirty reports whether any cell's amount or currency differs from the
// baseline. Reverting an edit back to its original value clears dirtiness.
func (d *BudgetPlanDraft) Dirty() bool {
	for i, row := range d.Grid.Rows {
		base := d.baseline.Rows[i]
		for j, cell := range row.Cells {
			if cell.Amount != base.Cells[j].Amount || cell.Currency != base.Cells[j].Currency {
				return true
			}
		}
	}
	return false
}

// Serialize flattens the working grid into persistable records, one per
// category-month cell.
func (d *BudgetPlanDraft) Serialize() []BudgetPlanRecord {
	return d.Grid.Flatten()
}

func (d *BudgetPlanDraft) rowFor(categoryID string) *BudgetPlanRow {
	for i := range d.Grid.Rows {
		if d.Grid.Rows[i].Category.CategoryID == categoryID {
			return &d.Grid.Rows[i]
		}
	}
	return nil
}
