package core

const (
	DiagnosticWarning DiagnosticSeverity = "warning"
	DiagnosticError   DiagnosticSeverity = "error"
)

type (
	DiagnosticSeverity string

	// Account is a tracked cash account. Only accounts flagged
	// IncludeInRunway feed the runway projection's starting balance.
	Account struct {
		AccountID       string
		Name            string
		IncludeInRunway bool
	}

	// AccountDiagnostic is a data-quality note an adapter attaches while
	// reading accounts, e.g. an account with no snapshot at all.
	AccountDiagnostic struct {
		AccountID string
		Severity  DiagnosticSeverity
		Message   string
	}

	// AccountBundle is what the account reader returns: the accounts plus
	// any diagnostics gathered while loading them.
	AccountBundle struct {
		Accounts    []Account
		Diagnostics []AccountDiagnostic
	}

	// ProjectionRecord is the persistable shape of one projection row,
	// exactly what the projection writer stores.
	ProjectionRecord struct {
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
)
