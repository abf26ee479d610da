package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paulobarcelos/runway-compass-sub000/internal/core"
	"github.com/paulobarcelos/runway-compass-sub000/internal/sheets"
)

// PlanService loads the category definitions and persisted plan records,
// materializes the 12-month grid, and writes edited drafts back. The grid
// is rebuilt from scratch on every load; nothing is cached between calls.
type PlanService struct {
	categories sheets.CategoryReader
	planReader sheets.BudgetPlanReader
	planWriter sheets.BudgetPlanWriter
}

func NewPlanService(
	categories sheets.CategoryReader,
	planReader sheets.BudgetPlanReader,
	planWriter sheets.BudgetPlanWriter,
) *PlanService {
	return &PlanService{
		categories: categories,
		planReader: planReader,
		planWriter: planWriter,
	}
}

// LoadGrid builds the plan window opening at startDate's month.
func (s *PlanService) LoadGrid(ctx context.Context, startDate string) (*core.BudgetPlanGrid, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	records, err := s.planReader.ListBudgetPlanRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load budget plan records: %w", err)
	}

	grid, err := core.BuildBudgetPlanGrid(core.GridInput{
		Categories: categories,
		BudgetPlan: records,
		StartDate:  startDate,
	})
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Budget plan grid built",
		"categories", len(grid.Rows),
		"start", startDate,
		"records", len(records))
	return grid, nil
}

// SavePlan flattens the draft and persists every cell in one write. Clean
// drafts are skipped; the caller discards the draft either way.
func (s *PlanService) SavePlan(ctx context.Context, draft *core.BudgetPlanDraft) (int, error) {
	if !draft.Dirty() {
		slog.DebugContext(ctx, "Budget plan draft is clean, skipping save")
		return 0, nil
	}
	records := draft.Serialize()
	if err := s.planWriter.SaveBudgetPlanRecords(ctx, records); err != nil {
		return 0, fmt.Errorf("save budget plan records: %w", err)
	}
	slog.InfoContext(ctx, "Budget plan saved", "records", len(records))
	return len(records), nil
}
