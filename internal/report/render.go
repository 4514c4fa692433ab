// Package report turns structured ledger query results into the flat text
// artifacts the payroll shells produce: aligned console tables, per-month
// output files and the append-only error log. The core never formats or
// writes anything itself.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"payroll/internal/core"
)

// Currency is the symbol prefixed to monetary columns.
const Currency = "£"

// FormatMoney renders a monetary value with the currency symbol.
func FormatMoney(d decimal.Decimal) string {
	return Currency + core.FormatAmount(d)
}

// RenderMonthSummary writes the aligned pay table for one month. The same
// renderer serves the plain summary and the sorted listings, since both
// carry identical columns.
func RenderMonthSummary(w io.Writer, month string, lines []core.PayLine) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Monthly Summary: %s\n", month)
	fmt.Fprintln(tw, "ID\tName\tRate\tHours\tGross\tTax\tNet")
	for _, ln := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			ln.EmployeeID,
			ln.Name,
			core.FormatAmount(ln.HourlyRate),
			core.FormatAmount(ln.Hours),
			FormatMoney(ln.Gross),
			FormatMoney(ln.Tax),
			FormatMoney(ln.Net),
		)
	}
	return tw.Flush()
}

// RenderEmployeeDetail writes the per-month breakdown plus totals row for
// one employee.
func RenderEmployeeDetail(w io.Writer, detail core.EmployeeDetail) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Details for %s (%s)\n", detail.EmployeeID, detail.Name)
	fmt.Fprintln(tw, "Month\tHours\tGross\tTax\tNet")
	for _, m := range detail.Months {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			m.Month,
			core.FormatAmount(m.Hours),
			FormatMoney(m.Gross),
			FormatMoney(m.Tax),
			FormatMoney(m.Net),
		)
	}
	fmt.Fprintf(tw, "Totals:\t\t%s\t%s\t%s\n",
		FormatMoney(detail.Totals.Gross),
		FormatMoney(detail.Totals.Tax),
		FormatMoney(detail.Totals.Net),
	)
	return tw.Flush()
}

// RenderTotals writes just the three aggregates for one employee.
func RenderTotals(w io.Writer, id, name string, totals core.Totals) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Totals for %s (%s)\n", id, name)
	fmt.Fprintf(tw, "Total Gross:\t%s\n", FormatMoney(totals.Gross))
	fmt.Fprintf(tw, "Total Tax:\t%s\n", FormatMoney(totals.Tax))
	fmt.Fprintf(tw, "Total Net:\t%s\n", FormatMoney(totals.Net))
	return tw.Flush()
}
