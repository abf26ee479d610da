package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/paulobarcelos/runway-compass-sub000/internal/core"
)

// printGrid renders the plan grid as a category-by-month table, with the
// rollover balance in parentheses for rollover-flagged categories.
func printGrid(grid *core.BudgetPlanGrid) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)

	fmt.Fprint(w, "category")
	for _, m := range grid.Months {
		fmt.Fprintf(w, "\t%04d-%02d", m.Year, m.Month)
	}
	fmt.Fprintln(w)

	for _, row := range grid.Rows {
		fmt.Fprint(w, row.Category.Name)
		for _, cell := range row.Cells {
			if row.Category.RolloverFlag {
				fmt.Fprintf(w, "\t%.2f (%.2f)", cell.Amount, cell.RolloverBalance)
			} else {
				fmt.Fprintf(w, "\t%.2f", cell.Amount)
			}
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}
