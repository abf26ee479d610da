package memory

import (
	"context"
	"testing"

	"github.com/paulobarcelos/runway-compass-sub000/internal/core"
)

func TestStore_SaveBudgetPlanRecordsUpserts(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := []core.BudgetPlanRecord{
		{RecordID: "budget_food_2025-01", CategoryID: "food", Month: 1, Year: 2025, Amount: 150, Currency: "EUR"},
		{RecordID: "budget_food_2025-02", CategoryID: "food", Month: 2, Year: 2025, Amount: 200, Currency: "EUR"},
	}
	if err := s.SaveBudgetPlanRecords(ctx, first); err != nil {
		t.Fatal(err)
	}

	// Saving again with one changed amount must overwrite, not duplicate.
	update := []core.BudgetPlanRecord{
		{RecordID: "budget_food_2025-01", CategoryID: "food", Month: 1, Year: 2025, Amount: 175, Currency: "EUR"},
	}
	if err := s.SaveBudgetPlanRecords(ctx, update); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListBudgetPlanRecords(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Amount != 175 {
		t.Errorf("updated amount = %v, want 175", got[0].Amount)
	}
}

func TestStore_SaveProjectionReplaces(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.SaveProjection(ctx, []core.ProjectionRecord{{Month: 1, Year: 2025}, {Month: 2, Year: 2025}}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveProjection(ctx, []core.ProjectionRecord{{Month: 3, Year: 2025}}); err != nil {
		t.Fatal(err)
	}

	got := s.Projection()
	if len(got) != 1 || got[0].Month != 3 {
		t.Errorf("projection = %+v, want single march row", got)
	}
}

func TestStore_ListReturnsCopies(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts.Accounts) == 0 {
		t.Fatal("seeded store has no accounts")
	}
	accounts.Accounts[0].Name = "mutated"

	again, err := s.ListAccounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if again.Accounts[0].Name == "mutated" {
		t.Error("ListAccounts leaked internal slice")
	}
}
