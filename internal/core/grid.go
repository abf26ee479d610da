package core

import (
	"fmt"
	"sort"
)

type (
	// BudgetCategory is one envelope definition. MonthlyBudget seeds
	// missing grid cells and serves as the rollover reference amount.
	BudgetCategory struct {
		CategoryID    string
		Name          string
		Currency      string
		MonthlyBudget float64
		RolloverFlag  bool
		SortOrder     int
	}

	// BudgetPlanRecord is the persisted shape of one category-month cell.
	BudgetPlanRecord struct {
		RecordID        string
		CategoryID      string
		Month           int
		Year            int
		Amount          float64
		Currency        string
		RolloverBalance float64
	}

	// GridMonth describes one column of the plan grid.
	GridMonth struct {
		Year  int
		Month int
		Key   MonthKey
	}

	// BudgetPlanCell is one editable cell. Generated cells have no
	// backing persisted record; their RecordID is synthesized
	// deterministically so re-derivation is idempotent.
	BudgetPlanCell struct {
		MonthIndex      int
		Amount          float64
		Currency        string
		RolloverBalance float64
		RecordID        string
		IsGenerated     bool
	}

	// BudgetPlanRow is one category across the 12 grid months.
	BudgetPlanRow struct {
		Category BudgetCategory
		Cells    []BudgetPlanCell
	}

	// BudgetPlanGrid is the rolling 12-month category-by-month matrix.
	// It is rebuilt from scratch on every load, never patched in place.
	BudgetPlanGrid struct {
		Months []GridMonth
		Rows   []BudgetPlanRow
	}

	// GridInput carries the inputs of BuildBudgetPlanGrid. StartDate is a
	// YYYY-MM or YYYY-MM-DD value whose month opens the grid window.
	GridInput struct {
		Categories []BudgetCategory
		BudgetPlan []BudgetPlanRecord
		StartDate  string
	}
)

// GridWindowMonths is the width of the budget plan window.
const GridWindowMonths = 12

// GenerateBudgetPlanRecordID builds the deterministic identifier for a
// category-month cell, the same whether the cell is persisted or generated.
func GenerateBudgetPlanRecordID(categoryID string, year, month int) string {
	return fmt.Sprintf("budget_%s_%d-%02d", categoryID, year, month)
}

// BuildBudgetPlanGrid materializes the 12-month plan window starting at
// StartDate's month. Cells with a persisted record keep its amount and
// identity; the rest are generated from the category's monthly budget.
// Rollover balances are computed per row for rollover-flagged categories.
func BuildBudgetPlanGrid(in GridInput) (*BudgetPlanGrid, error) {
	start, err := ParseMonthParts(in.StartDate, "grid start date")
	if err != nil {
		return nil, err
	}

	months := make([]GridMonth, GridWindowMonths)
	for i := range months {
		key := start.Key + MonthKey(i)
		year, month := key.Parts()
		months[i] = GridMonth{Year: year, Month: month, Key: key}
	}

	// Persisted records indexed by cell identity. Later duplicates win,
	// matching last-write semantics of the backing store.
	recordsByID := make(map[string]BudgetPlanRecord, len(in.BudgetPlan))
	for _, rec := range in.BudgetPlan {
		if !isFinite(rec.Amount) {
			return nil, newValidationError("budget plan amount", "non-finite amount in record %q", rec.RecordID)
		}
		recordsByID[GenerateBudgetPlanRecordID(rec.CategoryID, rec.Year, rec.Month)] = rec
	}

	categories := append([]BudgetCategory(nil), in.Categories...)
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].SortOrder < categories[j].SortOrder
	})

	rows := make([]BudgetPlanRow, 0, len(categories))
	for _, cat := range categories {
		cells := make([]BudgetPlanCell, GridWindowMonths)
		amounts := make([]float64, GridWindowMonths)
		for i, m := range months {
			id := GenerateBudgetPlanRecordID(cat.CategoryID, m.Year, m.Month)
			if rec, ok := recordsByID[id]; ok {
				cells[i] = BudgetPlanCell{
					MonthIndex:  i,
					Amount:      rec.Amount,
					Currency:    rec.Currency,
					RecordID:    rec.RecordID,
					IsGenerated: false,
				}
			} else {
				cells[i] = BudgetPlanCell{
					MonthIndex:  i,
					Amount:      cat.MonthlyBudget,
					Currency:    cat.Currency,
					RecordID:    id,
					IsGenerated: true,
				}
			}
			amounts[i] = cells[i].Amount
		}
		if cat.RolloverFlag {
			for i, balance := range RolloverBalances(cat.MonthlyBudget, amounts) {
				cells[i].RolloverBalance = balance
			}
		}
		rows = append(rows, BudgetPlanRow{Category: cat, Cells: cells})
	}

	return &BudgetPlanGrid{Months: months, Rows: rows}, nil
}

// Clone deep-copies the grid so edits on the copy never reach the original.
func (g *BudgetPlanGrid) Clone() *BudgetPlanGrid {
	clone := &BudgetPlanGrid{
		Months: append([]GridMonth(nil), g.Months...),
		Rows:   make([]BudgetPlanRow, len(g.Rows)),
	}
	for i, row := range g.Rows {
		clone.Rows[i] = BudgetPlanRow{
			Category: row.Category,
			Cells:    append([]BudgetPlanCell(nil), row.Cells...),
		}
	}
	return clone
}

// Flatten serializes every cell into its persistable record shape, one
// record per category-month.
func (g *BudgetPlanGrid) Flatten() []BudgetPlanRecord {
	records := make([]BudgetPlanRecord, 0, len(g.Rows)*len(g.Months))
	for _, row := range g.Rows {
		for i, cell := range row.Cells {
			m := g.Months[i]
			records = append(records, BudgetPlanRecord{
				RecordID:        cell.RecordID,
				CategoryID:      row.Category.CategoryID,
				Month:           m.Month,
				Year:            m.Year,
				Amount:          cell.Amount,
				Currency:        cell.Currency,
				RolloverBalance: cell.RolloverBalance,
			})
		}
	}
	return records
}
