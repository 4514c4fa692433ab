// Package payfile parses the flat text files that drive the payroll
// ledger: the employee registry and per-month pay files. Parsing is
// deliberately lenient, skipping malformed lines instead of failing,
// because the input files are hand-maintained. Opening the underlying file
// is the caller's responsibility; this package only reads.
package payfile

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"payroll/internal/core"
)

// MonthKeyFromFilename derives the normalized month key from a pay file
// name: the base name minus its extension, uppercased and trimmed.
// "data/jan25.txt" becomes "JAN25".
func MonthKeyFromFilename(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return core.NormalizeMonthKey(base)
}

// ParseRegistry reads `identifier displayName hourlyRate` records, one per
// line. Lines with the wrong field count, a non-numeric rate or a negative
// rate are skipped silently. Blank lines and #-comments are ignored.
// Duplicate identifiers are kept; the ledger resolves them last-wins.
func ParseRegistry(r io.Reader) ([]core.EmployeeRecord, error) {
	var records []core.EmployeeRecord
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		rate, err := core.ParseAmount(fields[2])
		if err != nil || rate.IsNegative() {
			continue
		}
		records = append(records, core.EmployeeRecord{
			ID:         fields[0],
			Name:       fields[1],
			HourlyRate: rate,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return records, nil
}

// ParsePayFile reads `identifier hours` records with the same leniency as
// ParseRegistry. Identifier validity against the roster is the ledger's
// concern, not the parser's.
func ParsePayFile(r io.Reader) ([]core.HourRecord, error) {
	var records []core.HourRecord
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		hours, err := core.ParseAmount(fields[1])
		if err != nil {
			continue
		}
		records = append(records, core.HourRecord{
			EmployeeID: fields[0],
			Hours:      hours,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read pay file: %w", err)
	}
	return records, nil
}
