package core

import (
	"math"
	"sort"
)

const (
	Income  FlowType = "income"
	Expense FlowType = "expense"

	Planned FlowStatus = "planned"
	Posted  FlowStatus = "posted"
	Void    FlowStatus = "void"

	StatusGreen  StoplightStatus = "green"
	StatusYellow StoplightStatus = "yellow"
	StatusRed    StoplightStatus = "red"
)

type (
	FlowType        string
	FlowStatus      string
	StoplightStatus string

	// SnapshotBalance is one observed account balance. Only the most
	// recent snapshot per account contributes to the projection.
	SnapshotBalance struct {
		AccountID string
		Date      string // YYYY-MM-DD or YYYY-MM
		Balance   float64
	}

	// BudgetAllocation is an expense-side forecast contribution for one
	// month, already expressed in the accounting currency.
	BudgetAllocation struct {
		CategoryID string
		Month      int
		Year       int
		Amount     float64
	}

	// CashFlowEntry is a planned or posted income/expense movement.
	// Posted entries use the actual date and amount, falling back to the
	// planned values when an actual is absent. Void entries never count.
	CashFlowEntry struct {
		FlowID        string
		Type          FlowType
		Status        FlowStatus
		PlannedDate   string
		PlannedAmount float64
		ActualDate    string
		ActualAmount  *float64
	}

	// ProjectionRow is one month of the runway forecast. The projected
	// ending balance of row i seeds the starting balance of row i+1.
	ProjectionRow struct {
		Month                  int
		Year                   int
		StartingBalance        float64
		ActualIncome           float64
		ActualExpenses         float64
		ProjectedIncome        float64
		ProjectedExpenses      float64
		ActualEndingBalance    float64
		ProjectedEndingBalance float64
		Stoplight              StoplightStatus
		Notes                  string
	}

	// ProjectionInput carries everything BuildRunwayProjection needs.
	// Snapshots must already be filtered to runway-eligible accounts.
	ProjectionInput struct {
		Budgets          []BudgetAllocation
		CashFlows        []CashFlowEntry
		Snapshots        []SnapshotBalance
		WarningThreshold float64
		DangerThreshold  float64
		// MonthsToProject extends the horizon to at least this many rows.
		// Zero means no minimum was requested.
		MonthsToProject int
	}
)

// BuildRunwayProjection turns balance snapshots, budget allocations and cash
// flows into a month-ordered forecast with chained balances. The anchor month
// is the latest snapshot month; anything dated before it is discarded.
func BuildRunwayProjection(in ProjectionInput) ([]ProjectionRow, error) {
	if len(in.Snapshots) == 0 {
		return nil, newValidationError("snapshots", "no account snapshots available")
	}
	if in.MonthsToProject < 0 {
		return nil, newValidationError("monthsToProject", "must be a positive integer, got %d", in.MonthsToProject)
	}

	// Latest snapshot per account, by the snapshot's UTC timestamp.
	type latest struct {
		parts   MonthParts
		balance float64
	}
	latestByAccount := make(map[string]latest, len(in.Snapshots))
	for _, s := range in.Snapshots {
		if !isFinite(s.Balance) {
			return nil, newValidationError("snapshot balance", "non-finite balance for account %q", s.AccountID)
		}
		parts, err := ParseMonthParts(s.Date, "snapshot date")
		if err != nil {
			return nil, err
		}
		cur, seen := latestByAccount[s.AccountID]
		if !seen || parts.Timestamp.After(cur.parts.Timestamp) {
			latestByAccount[s.AccountID] = latest{parts: parts, balance: s.Balance}
		}
	}
	if len(latestByAccount) == 0 {
		return nil, newValidationError("snapshots", "no account snapshots available")
	}

	var startMonthKey MonthKey
	var startingBalance float64
	first := true
	for _, l := range latestByAccount {
		startingBalance += l.balance
		if first || l.parts.Key > startMonthKey {
			startMonthKey = l.parts.Key
		}
		first = false
	}
	endMonthKey := startMonthKey

	// Budget allocations bucket into a per-month expense total. Months
	// before the anchor are history and never contribute.
	budgetTotals := map[MonthKey]float64{}
	for _, b := range in.Budgets {
		if !isFinite(b.Amount) {
			return nil, newValidationError("budget amount", "non-finite amount for %04d-%02d", b.Year, b.Month)
		}
		if b.Month < 1 || b.Month > 12 {
			return nil, newValidationError("budget month", "month %d out of range", b.Month)
		}
		key := NewMonthKey(b.Year, b.Month)
		if key < startMonthKey {
			continue
		}
		budgetTotals[key] += b.Amount
		if key > endMonthKey {
			endMonthKey = key
		}
	}

	postedIncome := map[MonthKey]float64{}
	postedExpense := map[MonthKey]float64{}
	plannedIncome := map[MonthKey]float64{}
	plannedExpense := map[MonthKey]float64{}

	for _, f := range in.CashFlows {
		if f.Status == Void {
			continue
		}
		if f.Type != Income && f.Type != Expense {
			return nil, newValidationError("cash flow type", "unknown type %q for flow %q", f.Type, f.FlowID)
		}

		var date string
		var amount float64
		switch f.Status {
		case Posted:
			date = f.ActualDate
			if date == "" {
				date = f.PlannedDate
			}
			if f.ActualAmount != nil {
				amount = *f.ActualAmount
			} else {
				amount = f.PlannedAmount
			}
		case Planned:
			date = f.PlannedDate
			amount = f.PlannedAmount
		default:
			return nil, newValidationError("cash flow status", "unknown status %q for flow %q", f.Status, f.FlowID)
		}
		if !isFinite(amount) {
			return nil, newValidationError("cash flow amount", "non-finite amount for flow %q", f.FlowID)
		}
		parts, err := ParseMonthParts(date, "cash flow date")
		if err != nil {
			return nil, err
		}
		if parts.Key < startMonthKey {
			continue
		}
		switch {
		case f.Status == Posted && f.Type == Income:
			postedIncome[parts.Key] += amount
		case f.Status == Posted && f.Type == Expense:
			postedExpense[parts.Key] += amount
		case f.Type == Income:
			plannedIncome[parts.Key] += amount
		default:
			plannedExpense[parts.Key] += amount
		}
		if parts.Key > endMonthKey {
			endMonthKey = parts.Key
		}
	}

	if in.MonthsToProject > 0 {
		if horizon := startMonthKey + MonthKey(in.MonthsToProject) - 1; horizon > endMonthKey {
			endMonthKey = horizon
		}
	}

	rows := make([]ProjectionRow, 0, int(endMonthKey-startMonthKey)+1)
	currentStartingBalance := startingBalance
	for key := startMonthKey; key <= endMonthKey; key++ {
		year, month := key.Parts()

		pIncome := postedIncome[key]
		pExpense := postedExpense[key]
		projectedIncome := pIncome + plannedIncome[key]
		projectedExpenses := pExpense + plannedExpense[key] + budgetTotals[key]

		actualEnding := currentStartingBalance + pIncome - pExpense
		projectedEnding := currentStartingBalance + projectedIncome - projectedExpenses

		rows = append(rows, ProjectionRow{
			Month:                  month,
			Year:                   year,
			StartingBalance:        normalizeZero(currentStartingBalance),
			ActualIncome:           normalizeZero(pIncome),
			ActualExpenses:         normalizeZero(pExpense),
			ProjectedIncome:        normalizeZero(projectedIncome),
			ProjectedExpenses:      normalizeZero(projectedExpenses),
			ActualEndingBalance:    normalizeZero(actualEnding),
			ProjectedEndingBalance: normalizeZero(projectedEnding),
			Stoplight:              classifyBalance(projectedEnding, in.WarningThreshold, in.DangerThreshold),
		})

		// The forecast chain carries the projected balance, not the
		// actual one, so actual/projected divergence in one month does
		// not leak into later actuals.
		currentStartingBalance = projectedEnding
	}
	return rows, nil
}

// classifyBalance bands a projected balance against the two thresholds.
// Both thresholds are exclusive upper bounds: a balance exactly at the
// danger threshold is yellow, exactly at the warning threshold is green.
func classifyBalance(balance, warning, danger float64) StoplightStatus {
	switch {
	case balance < danger:
		return StatusRed
	case balance < warning:
		return StatusYellow
	default:
		return StatusGreen
	}
}

// SortAllocations orders allocations chronologically, stable for ties.
// Adapters read spreadsheet rows in sheet order; services rely on this for
// deterministic aggregation logs.
func SortAllocations(allocations []BudgetAllocation) {
	sort.SliceStable(allocations, func(i, j int) bool {
		return NewMonthKey(allocations[i].Year, allocations[i].Month) <
			NewMonthKey(allocations[j].Year, allocations[j].Month)
	})
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// normalizeZero maps -0 to 0 so serialized rows never show a signed zero.
func normalizeZero(f float64) float64 {
	if f == 0 {
		return 0
	}
	return f
}
