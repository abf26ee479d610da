package services

import (
	"context"
	"testing"

	"github.com/paulobarcelos/runway-compass-sub000/internal/core"
	"github.com/paulobarcelos/runway-compass-sub000/internal/sheets/memory"
)

func TestPlanService_LoadGrid(t *testing.T) {
	store := memory.New()
	store.SetCategories([]core.BudgetCategory{
		{CategoryID: "food", Name: "Food", Currency: "EUR", MonthlyBudget: 200, RolloverFlag: true, SortOrder: 1},
	})
	if err := store.SaveBudgetPlanRecords(context.Background(), []core.BudgetPlanRecord{
		{RecordID: "budget_food_2025-01", CategoryID: "food", Month: 1, Year: 2025, Amount: 150, Currency: "EUR"},
	}); err != nil {
		t.Fatal(err)
	}

	svc := NewPlanService(store, store, store)
	grid, err := svc.LoadGrid(context.Background(), "2025-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(grid.Rows) != 1 || len(grid.Months) != core.GridWindowMonths {
		t.Fatalf("grid shape = %dx%d, want 1x%d", len(grid.Rows), len(grid.Months), core.GridWindowMonths)
	}
	cells := grid.Rows[0].Cells
	if cells[0].IsGenerated || cells[0].Amount != 150 {
		t.Errorf("cell[0] = %+v, want persisted amount 150", cells[0])
	}
	if !cells[1].IsGenerated || cells[1].Amount != 200 {
		t.Errorf("cell[1] = %+v, want generated default 200", cells[1])
	}
	if cells[1].RolloverBalance != 50 {
		t.Errorf("rollover[1] = %v, want 50", cells[1].RolloverBalance)
	}
}

func TestPlanService_SavePlanSkipsCleanDraft(t *testing.T) {
	store := memory.New()
	store.SetCategories([]core.BudgetCategory{
		{CategoryID: "food", Currency: "EUR", MonthlyBudget: 200, SortOrder: 1},
	})

	svc := NewPlanService(store, store, store)
	grid, err := svc.LoadGrid(context.Background(), "2025-01")
	if err != nil {
		t.Fatal(err)
	}

	written, err := svc.SavePlan(context.Background(), core.NewBudgetPlanDraft(grid))
	if err != nil {
		t.Fatal(err)
	}
	if written != 0 {
		t.Errorf("wrote %d records for a clean draft, want 0", written)
	}
	if records, _ := store.ListBudgetPlanRecords(context.Background()); len(records) != 0 {
		t.Errorf("store has %d records, want none", len(records))
	}
}

func TestPlanService_SavePlanPersistsEdits(t *testing.T) {
	store := memory.New()
	store.SetCategories([]core.BudgetCategory{
		{CategoryID: "food", Currency: "EUR", MonthlyBudget: 200, SortOrder: 1},
	})

	svc := NewPlanService(store, store, store)
	grid, err := svc.LoadGrid(context.Background(), "2025-01")
	if err != nil {
		t.Fatal(err)
	}
	draft := core.NewBudgetPlanDraft(grid)
	if err := draft.ApplyMoneyChange(core.MoneyChange{CategoryID: "food", MonthIndex: 0, Amount: 250, Currency: "EUR"}); err != nil {
		t.Fatal(err)
	}

	written, err := svc.SavePlan(context.Background(), draft)
	if err != nil {
		t.Fatal(err)
	}
	if written != core.GridWindowMonths {
		t.Errorf("wrote %d records, want full row of %d", written, core.GridWindowMonths)
	}

	// A fresh load derives the same grid from the persisted records.
	reloaded, err := svc.LoadGrid(context.Background(), "2025-01")
	if err != nil {
		t.Fatal(err)
	}
	cell := reloaded.Rows[0].Cells[0]
	if cell.Amount != 250 || cell.IsGenerated {
		t.Errorf("reloaded cell = %+v, want persisted amount 250", cell)
	}
}
