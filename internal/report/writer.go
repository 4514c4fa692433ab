package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"payroll/internal/core"
)

// MonthFileName returns the output file name for a month key, lowercase
// with the fixed suffix, e.g. "jan25_output.txt".
func MonthFileName(month string) string {
	return strings.ToLower(core.NormalizeMonthKey(month)) + "_output.txt"
}

// WriteMonthFile writes the month's pay table to its output file inside
// dir, replacing any previous run's file for the same month.
func WriteMonthFile(dir, month string, lines []core.PayLine) (string, error) {
	path := filepath.Join(dir, MonthFileName(month))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create month output %s: %w", path, err)
	}
	defer f.Close()

	if err := RenderMonthSummary(f, core.NormalizeMonthKey(month), lines); err != nil {
		return "", fmt.Errorf("write month output %s: %w", path, err)
	}
	return path, nil
}
