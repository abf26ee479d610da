package google

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulobarcelos/runway-compass-sub000/internal/core"
)

// The parse helpers convert a values matrix as returned by the Sheets API
// into typed records. Row 1 is the header; blank rows are skipped; a
// malformed numeric cell fails the whole read because a silently dropped
// row would corrupt every balance derived after it.

func parseAccounts(values [][]interface{}) (core.AccountBundle, error) {
	var bundle core.AccountBundle
	for i, row := range dataRows(values) {
		cols := toStrings(row)
		if isBlank(cols) {
			continue
		}
		accountID := safeGet(cols, 0)
		if accountID == "" {
			return core.AccountBundle{}, fmt.Errorf("accounts row %d: missing account id", i+2)
		}
		include, err := parseBoolCell(safeGet(cols, 2))
		if err != nil {
			return core.AccountBundle{}, fmt.Errorf("accounts row %d: %w", i+2, err)
		}
		bundle.Accounts = append(bundle.Accounts, core.Account{
			AccountID:       accountID,
			Name:            safeGet(cols, 1),
			IncludeInRunway: include,
		})
	}
	return bundle, nil
}

func parseSnapshots(values [][]interface{}) ([]core.SnapshotBalance, error) {
	var out []core.SnapshotBalance
	for i, row := range dataRows(values) {
		cols := toStrings(row)
		if isBlank(cols) {
			continue
		}
		balance, err := parseFloatCell(safeGet(cols, 2))
		if err != nil {
			return nil, fmt.Errorf("snapshots row %d: %w", i+2, err)
		}
		out = append(out, core.SnapshotBalance{
			AccountID: safeGet(cols, 0),
			Date:      safeGet(cols, 1),
			Balance:   balance,
		})
	}
	return out, nil
}

func parseBudgets(values [][]interface{}) ([]core.BudgetAllocation, error) {
	var out []core.BudgetAllocation
	for i, row := range dataRows(values) {
		cols := toStrings(row)
		if isBlank(cols) {
			continue
		}
		month, err := parseIntCell(safeGet(cols, 1))
		if err != nil {
			return nil, fmt.Errorf("budgets row %d: %w", i+2, err)
		}
		year, err := parseIntCell(safeGet(cols, 2))
		if err != nil {
			return nil, fmt.Errorf("budgets row %d: %w", i+2, err)
		}
		amount, err := parseFloatCell(safeGet(cols, 3))
		if err != nil {
			return nil, fmt.Errorf("budgets row %d: %w", i+2, err)
		}
		out = append(out, core.BudgetAllocation{
			CategoryID: safeGet(cols, 0),
			Month:      month,
			Year:       year,
			Amount:     amount,
		})
	}
	return out, nil
}

func parseCashFlows(values [][]interface{}) ([]core.CashFlowEntry, error) {
	var out []core.CashFlowEntry
	for i, row := range dataRows(values) {
		cols := toStrings(row)
		if isBlank(cols) {
			continue
		}
		plannedAmount, err := parseFloatCell(safeGet(cols, 4))
		if err != nil {
			return nil, fmt.Errorf("cash flows row %d: %w", i+2, err)
		}
		entry := core.CashFlowEntry{
			FlowID:        safeGet(cols, 0),
			Type:          core.FlowType(strings.ToLower(safeGet(cols, 1))),
			Status:        core.FlowStatus(strings.ToLower(safeGet(cols, 2))),
			PlannedDate:   safeGet(cols, 3),
			PlannedAmount: plannedAmount,
			ActualDate:    safeGet(cols, 5),
		}
		if raw := safeGet(cols, 6); raw != "" {
			actual, err := parseFloatCell(raw)
			if err != nil {
				return nil, fmt.Errorf("cash flows row %d: %w", i+2, err)
			}
			entry.ActualAmount = &actual
		}
		out = append(out, entry)
	}
	return out, nil
}

func parseCategories(values [][]interface{}) ([]core.BudgetCategory, error) {
	var out []core.BudgetCategory
	for i, row := range dataRows(values) {
		cols := toStrings(row)
		if isBlank(cols) {
			continue
		}
		budget, err := parseFloatCell(safeGet(cols, 3))
		if err != nil {
			return nil, fmt.Errorf("categories row %d: %w", i+2, err)
		}
		rollover, err := parseBoolCell(safeGet(cols, 4))
		if err != nil {
			return nil, fmt.Errorf("categories row %d: %w", i+2, err)
		}
		sortOrder, err := parseIntCell(safeGet(cols, 5))
		if err != nil {
			return nil, fmt.Errorf("categories row %d: %w", i+2, err)
		}
		out = append(out, core.BudgetCategory{
			CategoryID:    safeGet(cols, 0),
			Name:          safeGet(cols, 1),
			Currency:      strings.ToUpper(safeGet(cols, 2)),
			MonthlyBudget: budget,
			RolloverFlag:  rollover,
			SortOrder:     sortOrder,
		})
	}
	return out, nil
}

func parsePlanRecords(values [][]interface{}) ([]core.BudgetPlanRecord, error) {
	var out []core.BudgetPlanRecord
	for i, row := range dataRows(values) {
		cols := toStrings(row)
		if isBlank(cols) {
			continue
		}
		month, err := parseIntCell(safeGet(cols, 2))
		if err != nil {
			return nil, fmt.Errorf("budget plan row %d: %w", i+2, err)
		}
		year, err := parseIntCell(safeGet(cols, 3))
		if err != nil {
			return nil, fmt.Errorf("budget plan row %d: %w", i+2, err)
		}
		amount, err := parseFloatCell(safeGet(cols, 4))
		if err != nil {
			return nil, fmt.Errorf("budget plan row %d: %w", i+2, err)
		}
		rollover := 0.0
		if raw := safeGet(cols, 6); raw != "" {
			rollover, err = parseFloatCell(raw)
			if err != nil {
				return nil, fmt.Errorf("budget plan row %d: %w", i+2, err)
			}
		}
		out = append(out, core.BudgetPlanRecord{
			RecordID:        safeGet(cols, 0),
			CategoryID:      safeGet(cols, 1),
			Month:           month,
			Year:            year,
			Amount:          amount,
			Currency:        strings.ToUpper(safeGet(cols, 5)),
			RolloverBalance: rollover,
		})
	}
	return out, nil
}

// dataRows skips the header row when one is present.
func dataRows(values [][]interface{}) [][]interface{} {
	if len(values) == 0 {
		return nil
	}
	return values[1:]
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func isBlank(cols []string) bool {
	for _, c := range cols {
		if c != "" {
			return false
		}
	}
	return true
}

func parseFloatCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	// Sheets may hand back a decimal comma depending on locale.
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

func parseIntCell(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty integer cell")
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return i, nil
}

func parseBoolCell(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "no", "0":
		return false, nil
	case "true", "yes", "1":
		return true, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}
