// Command payroll is the interactive console shell over the payroll
// ledger. It loads the employee registry at startup, then drives monthly
// pay file processing and queries from a numbered menu.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"payroll/internal/cli"
	"payroll/internal/core"
	"payroll/internal/report"
	"payroll/internal/services"
)

const menu = `
Payroll menu
  1. Process a monthly pay file
  2. View month details
  3. View employee details
  4. View month sorted by rate, hours or net pay
  5. View employee totals
  0. Quit
`

type shell struct {
	svc       *services.PayrollService
	in        *bufio.Scanner
	out       *os.File
	payDir    string
	outputDir string
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	svc := cli.InitService(logger, cfg, nil)

	sh := &shell{
		svc:       svc,
		in:        bufio.NewScanner(os.Stdin),
		out:       os.Stdout,
		payDir:    cfg.PayFileDir,
		outputDir: cfg.OutputDir,
	}
	sh.run(context.Background())
}

func (sh *shell) run(ctx context.Context) {
	for {
		fmt.Fprint(sh.out, menu)
		choice := sh.prompt("Choose an option: ")

		switch choice {
		case "1":
			sh.processPayFile(ctx)
		case "2":
			sh.viewMonth()
		case "3":
			sh.viewEmployee()
		case "4":
			sh.viewSorted()
		case "5":
			sh.viewTotals()
		case "0":
			fmt.Fprintln(sh.out, "Goodbye.")
			return
		default:
			fmt.Fprintln(sh.out, "Invalid option, try again.")
		}
	}
}

// prompt reads one trimmed line. EOF reads as "0" so a closed stdin quits
// the shell instead of spinning.
func (sh *shell) prompt(label string) string {
	fmt.Fprint(sh.out, label)
	if !sh.in.Scan() {
		return "0"
	}
	return strings.TrimSpace(sh.in.Text())
}

func (sh *shell) processPayFile(ctx context.Context) {
	name := sh.prompt("Pay file name (e.g. jan25.txt): ")
	if name == "" {
		fmt.Fprintln(sh.out, "No file name given.")
		return
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(sh.payDir, name)
	}

	res, err := sh.svc.ProcessPayFile(ctx, path, func(month string) bool {
		answer := sh.prompt(fmt.Sprintf("Month %s was already processed. Replace it? (y/n): ", month))
		return strings.EqualFold(answer, "y")
	})
	if err != nil {
		fmt.Fprintf(sh.out, "Could not process %s: %v\n", name, err)
		return
	}

	switch res.Status {
	case core.StatusSkipped:
		fmt.Fprintf(sh.out, "Month %s left unchanged.\n", res.Month)
		return
	case core.StatusApplied:
		if res.Replaced {
			fmt.Fprintf(sh.out, "Replaced month %s (%d records).\n", res.Month, res.Applied)
		} else {
			fmt.Fprintf(sh.out, "Processed month %s (%d records).\n", res.Month, res.Applied)
		}
	}
	if len(res.Errors) > 0 {
		fmt.Fprintf(sh.out, "%d record(s) were rejected, see the error log.\n", len(res.Errors))
	}

	lines, ok := sh.svc.MonthSummary(res.Month)
	if !ok {
		return
	}
	outPath, err := report.WriteMonthFile(sh.outputDir, res.Month, lines)
	if err != nil {
		fmt.Fprintf(sh.out, "Could not write the month report: %v\n", err)
		return
	}
	fmt.Fprintf(sh.out, "Report written to %s\n", outPath)
}

func (sh *shell) monthFromPrompt() ([]core.PayLine, string, bool) {
	months := sh.svc.ProcessedMonths()
	if len(months) == 0 {
		fmt.Fprintln(sh.out, "No months have been processed yet.")
		return nil, "", false
	}
	fmt.Fprintf(sh.out, "Processed months: %s\n", strings.Join(months, ", "))

	month := core.NormalizeMonthKey(sh.prompt("Month key: "))
	lines, ok := sh.svc.MonthSummary(month)
	if !ok {
		fmt.Fprintf(sh.out, "Month %s has not been processed.\n", month)
		return nil, "", false
	}
	return lines, month, true
}

func (sh *shell) viewMonth() {
	lines, month, ok := sh.monthFromPrompt()
	if !ok {
		return
	}
	if err := report.RenderMonthSummary(sh.out, month, lines); err != nil {
		fmt.Fprintf(sh.out, "Could not render the summary: %v\n", err)
	}
}

func (sh *shell) viewSorted() {
	_, month, ok := sh.monthFromPrompt()
	if !ok {
		return
	}

	criterion, ok := core.ParseSortCriterion(sh.prompt("Sort by (rate/hours/net): "))
	if !ok {
		fmt.Fprintln(sh.out, "Unknown sort criterion.")
		return
	}

	lines, _ := sh.svc.SortedMonth(month, criterion)
	if err := report.RenderMonthSummary(sh.out, month, lines); err != nil {
		fmt.Fprintf(sh.out, "Could not render the summary: %v\n", err)
	}
}

func (sh *shell) viewEmployee() {
	id := core.NormalizeID(sh.prompt("Employee ID: "))
	detail, ok := sh.svc.EmployeeDetail(id)
	if !ok {
		fmt.Fprintf(sh.out, "%s is not a valid employee ID\n", id)
		return
	}
	if err := report.RenderEmployeeDetail(sh.out, detail); err != nil {
		fmt.Fprintf(sh.out, "Could not render the details: %v\n", err)
	}
}

func (sh *shell) viewTotals() {
	id := core.NormalizeID(sh.prompt("Employee ID: "))
	detail, ok := sh.svc.EmployeeDetail(id)
	if !ok {
		fmt.Fprintf(sh.out, "%s is not a valid employee ID\n", id)
		return
	}
	if err := report.RenderTotals(sh.out, detail.EmployeeID, detail.Name, detail.Totals); err != nil {
		fmt.Fprintf(sh.out, "Could not render the totals: %v\n", err)
	}
}
