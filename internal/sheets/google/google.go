package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/paulobarcelos/runway-compass-sub000/internal/core"
	ports "github.com/paulobarcelos/runway-compass-sub000/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client reads the ledger tabs of the user's spreadsheet and writes the
// derived projection and budget plan back. One tab per dataset, header in
// row 1, data from row 2.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string

	accountsSheet   string
	snapshotsSheet  string
	budgetsSheet    string
	cashFlowsSheet  string
	categoriesSheet string
	planSheet       string
	projectionSheet string
}

var (
	_ ports.BudgetReader     = (*Client)(nil)
	_ ports.CashFlowReader   = (*Client)(nil)
	_ ports.SnapshotReader   = (*Client)(nil)
	_ ports.AccountReader    = (*Client)(nil)
	_ ports.ProjectionWriter = (*Client)(nil)
	_ ports.CategoryReader   = (*Client)(nil)
	_ ports.BudgetPlanReader = (*Client)(nil)
	_ ports.BudgetPlanWriter = (*Client)(nil)
)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Tab names are overridable via
// ACCOUNTS_SHEET_NAME, SNAPSHOTS_SHEET_NAME, BUDGETS_SHEET_NAME,
// CASH_FLOWS_SHEET_NAME, CATEGORIES_SHEET_NAME, BUDGET_PLAN_SHEET_NAME
// and PROJECTION_SHEET_NAME.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:             svc,
		spreadsheetID:   spreadsheetID,
		accountsSheet:   sheetNameFromEnv("ACCOUNTS_SHEET_NAME", "Accounts"),
		snapshotsSheet:  sheetNameFromEnv("SNAPSHOTS_SHEET_NAME", "Snapshots"),
		budgetsSheet:    sheetNameFromEnv("BUDGETS_SHEET_NAME", "MonthlyBudgets"),
		cashFlowsSheet:  sheetNameFromEnv("CASH_FLOWS_SHEET_NAME", "CashFlows"),
		categoriesSheet: sheetNameFromEnv("CATEGORIES_SHEET_NAME", "Categories"),
		planSheet:       sheetNameFromEnv("BUDGET_PLAN_SHEET_NAME", "BudgetPlan"),
		projectionSheet: sheetNameFromEnv("PROJECTION_SHEET_NAME", "RunwayProjection"),
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func sheetNameFromEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (c *Client) readSheet(ctx context.Context, sheetName string) ([][]interface{}, error) {
	rng := fmt.Sprintf("%s!A:Z", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

func (c *Client) ListMonthlyBudgets(ctx context.Context) ([]core.BudgetAllocation, error) {
	values, err := c.readSheet(ctx, c.budgetsSheet)
	if err != nil {
		return nil, err
	}
	budgets, err := parseBudgets(values)
	if err != nil {
		return nil, err
	}
	core.SortAllocations(budgets)
	return budgets, nil
}

func (c *Client) ListCashFlows(ctx context.Context) ([]core.CashFlowEntry, error) {
	values, err := c.readSheet(ctx, c.cashFlowsSheet)
	if err != nil {
		return nil, err
	}
	return parseCashFlows(values)
}

func (c *Client) ListSnapshots(ctx context.Context) ([]core.SnapshotBalance, error) {
	values, err := c.readSheet(ctx, c.snapshotsSheet)
	if err != nil {
		return nil, err
	}
	return parseSnapshots(values)
}

func (c *Client) ListAccounts(ctx context.Context) (core.AccountBundle, error) {
	values, err := c.readSheet(ctx, c.accountsSheet)
	if err != nil {
		return core.AccountBundle{}, err
	}
	return parseAccounts(values)
}

func (c *Client) ListCategories(ctx context.Context) ([]core.BudgetCategory, error) {
	values, err := c.readSheet(ctx, c.categoriesSheet)
	if err != nil {
		return nil, err
	}
	return parseCategories(values)
}

func (c *Client) ListBudgetPlanRecords(ctx context.Context) ([]core.BudgetPlanRecord, error) {
	values, err := c.readSheet(ctx, c.planSheet)
	if err != nil {
		return nil, err
	}
	return parsePlanRecords(values)
}

// SaveBudgetPlanRecords rewrites the plan tab wholesale. The record set is
// the full flattened grid, so a straight replace keeps the tab consistent.
func (c *Client) SaveBudgetPlanRecords(ctx context.Context, records []core.BudgetPlanRecord) error {
	values := [][]interface{}{planHeader()}
	for _, rec := range records {
		values = append(values, []interface{}{
			rec.RecordID, rec.CategoryID, rec.Month, rec.Year, rec.Amount, rec.Currency, rec.RolloverBalance,
		})
	}
	if err := c.replaceSheet(ctx, c.planSheet, values); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Budget plan written to spreadsheet",
		"sheet", c.planSheet, "records", len(records))
	return nil
}

// SaveProjection rewrites the projection tab wholesale.
func (c *Client) SaveProjection(ctx context.Context, rows []core.ProjectionRecord) error {
	values := [][]interface{}{projectionHeader()}
	for _, row := range rows {
		values = append(values, []interface{}{
			row.Year, row.Month, row.StartingBalance,
			row.ActualIncome, row.ActualExpenses,
			row.ProjectedIncome, row.ProjectedExpenses,
			row.ActualEndingBalance, row.ProjectedEndingBalance,
			string(row.Stoplight), row.Notes,
		})
	}
	if err := c.replaceSheet(ctx, c.projectionSheet, values); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Runway projection written to spreadsheet",
		"sheet", c.projectionSheet, "rows", len(rows))
	return nil
}

func (c *Client) replaceSheet(ctx context.Context, sheetName string, values [][]interface{}) error {
	rng := fmt.Sprintf("%s!A:Z", sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fmt.Sprintf("%s!A1", sheetName), vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", sheetName, err)
	}
	return nil
}

func planHeader() []interface{} {
	return []interface{}{"record_id", "category_id", "month", "year", "amount", "currency", "rollover_balance"}
}

func projectionHeader() []interface{} {
	return []interface{}{
		"year", "month", "starting_balance",
		"actual_income", "actual_expenses",
		"projected_income", "projected_expenses",
		"actual_ending_balance", "projected_ending_balance",
		"stoplight", "notes",
	}
}
