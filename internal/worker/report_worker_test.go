package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"payroll/internal/amqp"
	"payroll/internal/report"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestHandleMonthReport(t *testing.T) {
	dir := t.TempDir()
	w := NewReportWorker(dir, report.NewMemorySink())

	msg := amqp.MonthReportMessage{
		Month: "JAN25",
		Lines: []amqp.ReportLine{
			{
				EmployeeID: "E1",
				Name:       "Alice",
				HourlyRate: dec(t, "15"),
				Hours:      dec(t, "160"),
				Gross:      dec(t, "2400"),
				Tax:        dec(t, "270.50"),
				Net:        dec(t, "2129.50"),
			},
		},
	}
	if err := w.HandleMonthReport(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "jan25_output.txt"))
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "Alice") || !strings.Contains(out, "£2129.50") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestHandleRecordErrors(t *testing.T) {
	sink := report.NewMemorySink()
	w := NewReportWorker(t.TempDir(), sink)

	msg := amqp.RecordErrorsMessage{
		Source: "jan25.txt",
		Errors: []string{"ZZZ is not a valid employee ID"},
	}
	if err := w.HandleRecordErrors(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := sink.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Source != "jan25.txt" || entries[0].Message != "ZZZ is not a valid employee ID" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}
