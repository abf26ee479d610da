package core

import (
	"testing"
)

func floatPtr(f float64) *float64 { return &f }

func TestBuildRunwayProjection_EmptySnapshots(t *testing.T) {
	_, err := BuildRunwayProjection(ProjectionInput{})
	if err == nil {
		t.Fatal("expected error for empty snapshot set")
	}
	if !IsValidationError(err) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}

func TestBuildRunwayProjection_InputValidation(t *testing.T) {
	snapshot := SnapshotBalance{AccountID: "acct-1", Date: "2025-01-01", Balance: 100}

	tests := []struct {
		name string
		in   ProjectionInput
	}{
		{
			name: "unparsable snapshot date",
			in: ProjectionInput{Snapshots: []SnapshotBalance{
				{AccountID: "acct-1", Date: "01/02/2025", Balance: 100},
			}},
		},
		{
			name: "non-finite snapshot balance",
			in: ProjectionInput{Snapshots: []SnapshotBalance{
				{AccountID: "acct-1", Date: "2025-01-01", Balance: nan()},
			}},
		},
		{
			name: "unknown cash flow type",
			in: ProjectionInput{
				Snapshots: []SnapshotBalance{snapshot},
				CashFlows: []CashFlowEntry{{Type: "transfer", Status: Planned, PlannedDate: "2025-01-05", PlannedAmount: 10}},
			},
		},
		{
			name: "unknown cash flow status",
			in: ProjectionInput{
				Snapshots: []SnapshotBalance{snapshot},
				CashFlows: []CashFlowEntry{{Type: Income, Status: "pending", PlannedDate: "2025-01-05", PlannedAmount: 10}},
			},
		},
		{
			name: "negative months to project",
			in: ProjectionInput{
				Snapshots:       []SnapshotBalance{snapshot},
				MonthsToProject: -3,
			},
		},
		{
			name: "budget month out of range",
			in: ProjectionInput{
				Snapshots: []SnapshotBalance{snapshot},
				Budgets:   []BudgetAllocation{{Month: 13, Year: 2025, Amount: 10}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildRunwayProjection(tt.in); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

// Worked example: 1000 in the bank in January, a 1500 budget for January,
// 500 of planned income in February. January overshoots into red, February
// recovers exactly to the danger threshold, which is yellow, not red.
func TestBuildRunwayProjection_WorkedExample(t *testing.T) {
	rows, err := BuildRunwayProjection(ProjectionInput{
		Snapshots:        []SnapshotBalance{{AccountID: "acct-1", Date: "2025-01-01", Balance: 1000}},
		Budgets:          []BudgetAllocation{{Month: 1, Year: 2025, Amount: 1500}},
		CashFlows:        []CashFlowEntry{{Type: Income, Status: Planned, PlannedDate: "2025-02-01", PlannedAmount: 500}},
		WarningThreshold: 3000,
		DangerThreshold:  0,
		MonthsToProject:  2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	jan := rows[0]
	if jan.Month != 1 || jan.Year != 2025 {
		t.Errorf("row[0] month = %d-%02d, want 2025-01", jan.Year, jan.Month)
	}
	if jan.ProjectedEndingBalance != -500 {
		t.Errorf("jan projected ending = %v, want -500", jan.ProjectedEndingBalance)
	}
	if jan.Stoplight != StatusRed {
		t.Errorf("jan stoplight = %s, want red", jan.Stoplight)
	}

	feb := rows[1]
	if feb.StartingBalance != -500 {
		t.Errorf("feb starting = %v, want -500 (projected chain)", feb.StartingBalance)
	}
	if feb.ProjectedEndingBalance != 0 {
		t.Errorf("feb projected ending = %v, want 0", feb.ProjectedEndingBalance)
	}
	if feb.Stoplight != StatusYellow {
		t.Errorf("feb stoplight = %s, want yellow (danger threshold is exclusive)", feb.Stoplight)
	}
}

func TestBuildRunwayProjection_MonthsAreConsecutiveAndChained(t *testing.T) {
	rows, err := BuildRunwayProjection(ProjectionInput{
		Snapshots: []SnapshotBalance{{AccountID: "a", Date: "2024-11-20", Balance: 5000}},
		CashFlows: []CashFlowEntry{
			{Type: Expense, Status: Planned, PlannedDate: "2024-12-05", PlannedAmount: 700},
			{Type: Income, Status: Planned, PlannedDate: "2025-03-10", PlannedAmount: 1200},
		},
		WarningThreshold: 1000,
		DangerThreshold:  0,
	})
	if err != nil {
		t.Fatal(err)
	}
	// November 2024 through March 2025, no gaps across the year boundary.
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	for i, row := range rows {
		wantKey := NewMonthKey(2024, 11) + MonthKey(i)
		if NewMonthKey(row.Year, row.Month) != wantKey {
			t.Errorf("row[%d] = %04d-%02d, want %s", i, row.Year, row.Month, wantKey)
		}
		if i > 0 && row.StartingBalance != rows[i-1].ProjectedEndingBalance {
			t.Errorf("row[%d] starting = %v, want %v (previous projected ending)",
				i, row.StartingBalance, rows[i-1].ProjectedEndingBalance)
		}
	}
}

func TestBuildRunwayProjection_LatestSnapshotPerAccount(t *testing.T) {
	rows, err := BuildRunwayProjection(ProjectionInput{
		Snapshots: []SnapshotBalance{
			{AccountID: "checking", Date: "2025-01-03", Balance: 100},
			{AccountID: "checking", Date: "2025-01-20", Balance: 250}, // newer, same month
			{AccountID: "savings", Date: "2024-12-31", Balance: 1000},
		},
		WarningThreshold: 100,
		DangerThreshold:  0,
	})
	if err != nil {
		t.Fatal(err)
	}
	// Anchor is the latest month across accounts; starting balance sums
	// the latest snapshot of every account.
	if rows[0].Month != 1 || rows[0].Year != 2025 {
		t.Errorf("anchor = %04d-%02d, want 2025-01", rows[0].Year, rows[0].Month)
	}
	if rows[0].StartingBalance != 1250 {
		t.Errorf("starting balance = %v, want 1250", rows[0].StartingBalance)
	}
}

func TestBuildRunwayProjection_DiscardsHistoryBeforeAnchor(t *testing.T) {
	rows, err := BuildRunwayProjection(ProjectionInput{
		Snapshots: []SnapshotBalance{{AccountID: "a", Date: "2025-02-01", Balance: 1000}},
		Budgets: []BudgetAllocation{
			{Month: 1, Year: 2025, Amount: 400}, // before anchor, ignored
			{Month: 2, Year: 2025, Amount: 300},
		},
		CashFlows: []CashFlowEntry{
			// Posted in January: history, must not touch February actuals.
			{Type: Expense, Status: Posted, PlannedDate: "2025-01-10", PlannedAmount: 999},
		},
		WarningThreshold: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].ProjectedExpenses != 300 {
		t.Errorf("projected expenses = %v, want 300 (january budget discarded)", rows[0].ProjectedExpenses)
	}
	if rows[0].ActualExpenses != 0 {
		t.Errorf("actual expenses = %v, want 0 (january posting discarded)", rows[0].ActualExpenses)
	}
}

func TestBuildRunwayProjection_CashFlowSemantics(t *testing.T) {
	rows, err := BuildRunwayProjection(ProjectionInput{
		Snapshots: []SnapshotBalance{{AccountID: "a", Date: "2025-05-01", Balance: 2000}},
		CashFlows: []CashFlowEntry{
			// Posted with actuals: actual date and amount win.
			{FlowID: "f1", Type: Expense, Status: Posted,
				PlannedDate: "2025-04-01", PlannedAmount: 50,
				ActualDate: "2025-05-12", ActualAmount: floatPtr(75)},
			// Posted without actuals falls back to planned values.
			{FlowID: "f2", Type: Income, Status: Posted, PlannedDate: "2025-05-20", PlannedAmount: 300},
			// Planned always uses planned values, even with actuals set.
			{FlowID: "f3", Type: Income, Status: Planned,
				PlannedDate: "2025-05-25", PlannedAmount: 100,
				ActualDate: "2025-05-26", ActualAmount: floatPtr(999)},
			// Void never contributes, not even with a bad type.
			{FlowID: "f4", Type: "bogus", Status: Void, PlannedDate: "2025-05-01", PlannedAmount: 1e9},
		},
		WarningThreshold: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	row := rows[0]
	if row.ActualExpenses != 75 {
		t.Errorf("actual expenses = %v, want 75", row.ActualExpenses)
	}
	if row.ActualIncome != 300 {
		t.Errorf("actual income = %v, want 300", row.ActualIncome)
	}
	if row.ProjectedIncome != 400 {
		t.Errorf("projected income = %v, want 400 (posted 300 + planned 100)", row.ProjectedIncome)
	}
	if row.ActualEndingBalance != 2000+300-75 {
		t.Errorf("actual ending = %v, want %v", row.ActualEndingBalance, 2000.0+300-75)
	}
}

func TestBuildRunwayProjection_StoplightBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		balance float64
		want    StoplightStatus
	}{
		{"below danger is red", 1999, StatusRed},
		{"exactly danger is yellow", 2000, StatusYellow},
		{"between thresholds is yellow", 3500, StatusYellow},
		{"exactly warning is green", 5000, StatusGreen},
		{"above warning is green", 5001, StatusGreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := BuildRunwayProjection(ProjectionInput{
				Snapshots:        []SnapshotBalance{{AccountID: "a", Date: "2025-01-01", Balance: tt.balance}},
				WarningThreshold: 5000,
				DangerThreshold:  2000,
			})
			if err != nil {
				t.Fatal(err)
			}
			if rows[0].Stoplight != tt.want {
				t.Errorf("stoplight(%v) = %s, want %s", tt.balance, rows[0].Stoplight, tt.want)
			}
		})
	}
}

func TestBuildRunwayProjection_NoNegativeZero(t *testing.T) {
	rows, err := BuildRunwayProjection(ProjectionInput{
		Snapshots: []SnapshotBalance{{AccountID: "a", Date: "2025-01-01", Balance: 0}},
		CashFlows: []CashFlowEntry{
			{Type: Income, Status: Posted, PlannedDate: "2025-01-05", PlannedAmount: 0},
		},
		WarningThreshold: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	row := rows[0]
	for name, v := range map[string]float64{
		"starting":         row.StartingBalance,
		"actual ending":    row.ActualEndingBalance,
		"projected ending": row.ProjectedEndingBalance,
	} {
		if isNegZero(v) {
			t.Errorf("%s balance is -0, want 0", name)
		}
	}
}

func nan() float64 {
	f := 0.0
	return f / f
}

func isNegZero(f float64) bool {
	return f == 0 && 1/f < 0
}
