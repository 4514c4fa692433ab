package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"payroll/internal/amqp"
	"payroll/internal/core"
	"payroll/internal/report"
)

type fakePublisher struct {
	mu      sync.Mutex
	reports []amqp.MonthReportMessage
	errors  []amqp.RecordErrorsMessage
}

func (f *fakePublisher) PublishMonthReport(_ context.Context, msg amqp.MonthReportMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, msg)
	return nil
}

func (f *fakePublisher) PublishRecordErrors(_ context.Context, msg amqp.RecordErrorsMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, msg)
	return nil
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func testRoster(t *testing.T) []core.EmployeeRecord {
	t.Helper()
	return []core.EmployeeRecord{
		{ID: "E1", Name: "Alice", HourlyRate: dec(t, "15.00")},
		{ID: "E2", Name: "Bob", HourlyRate: dec(t, "10.00")},
	}
}

func TestIngestPublishesReport(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewPayrollService(report.NewMemorySink(), pub)
	svc.LoadRegistry(testRoster(t))

	records := []core.HourRecord{
		{EmployeeID: "E1", Hours: dec(t, "160")},
		{EmployeeID: "E2", Hours: dec(t, "100")},
	}
	res, err := svc.Ingest(context.Background(), "jan25", records, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != core.StatusApplied {
		t.Fatalf("expected applied, got %v", res.Status)
	}
	if res.Applied != 2 {
		t.Fatalf("expected 2 applied records, got %d", res.Applied)
	}

	if len(pub.reports) != 1 {
		t.Fatalf("expected 1 report event, got %d", len(pub.reports))
	}
	msg := pub.reports[0]
	if msg.Month != "JAN25" || msg.Replaced {
		t.Fatalf("unexpected report event: %+v", msg)
	}
	if len(msg.Lines) != 2 || msg.Lines[0].EmployeeID != "E1" {
		t.Fatalf("unexpected report lines: %+v", msg.Lines)
	}
	if got := msg.Lines[0].Net.StringFixed(2); got != "2129.50" {
		t.Errorf("expected net 2129.50, got %s", got)
	}
}

func TestIngestRecordsUnknownIdentifiers(t *testing.T) {
	pub := &fakePublisher{}
	sink := report.NewMemorySink()
	svc := NewPayrollService(sink, pub)
	svc.LoadRegistry(testRoster(t))

	records := []core.HourRecord{
		{EmployeeID: "E1", Hours: dec(t, "160")},
		{EmployeeID: "ZZZ", Hours: dec(t, "10")},
	}
	res, err := svc.Ingest(context.Background(), "jan25", records, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 record error, got %d", len(res.Errors))
	}

	entries := sink.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 sink entry, got %d", len(entries))
	}
	if entries[0].Source != "JAN25" || entries[0].Message != "ZZZ is not a valid employee ID" {
		t.Fatalf("unexpected sink entry: %+v", entries[0])
	}

	if len(pub.errors) != 1 || len(pub.errors[0].Errors) != 1 {
		t.Fatalf("expected 1 error event, got %+v", pub.errors)
	}
}

func TestIngestReplaceDecision(t *testing.T) {
	svc := NewPayrollService(nil, nil)
	svc.LoadRegistry(testRoster(t))

	ctx := context.Background()
	first := []core.HourRecord{{EmployeeID: "E1", Hours: dec(t, "160")}}
	if _, err := svc.Ingest(ctx, "jan25", first, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// nil decision declines the replace
	second := []core.HourRecord{{EmployeeID: "E1", Hours: dec(t, "80")}}
	res, err := svc.Ingest(ctx, "jan25", second, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != core.StatusSkipped {
		t.Fatalf("expected skipped, got %v", res.Status)
	}
	lines, _ := svc.MonthSummary("jan25")
	if got := lines[0].Hours.String(); got != "160" {
		t.Fatalf("skipped ingest changed hours to %s", got)
	}

	// accepting decision replaces
	asked := ""
	res, err = svc.Ingest(ctx, "jan25", second, func(m string) bool {
		asked = m
		return true
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asked != "JAN25" {
		t.Fatalf("decision asked for month %q", asked)
	}
	if res.Status != core.StatusApplied || !res.Replaced {
		t.Fatalf("expected applied replace, got %+v", res)
	}
	lines, _ = svc.MonthSummary("jan25")
	if got := lines[0].Hours.String(); got != "80" {
		t.Fatalf("replace kept old hours %s", got)
	}
}

func TestProcessPayFileLabelsErrorsWithFileName(t *testing.T) {
	sink := report.NewMemorySink()
	svc := NewPayrollService(sink, nil)
	svc.LoadRegistry(testRoster(t))

	dir := t.TempDir()
	path := filepath.Join(dir, "feb25.txt")
	content := "E1 120\nZZZ 10\nbad line with extra fields\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := svc.ProcessPayFile(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Month != "FEB25" {
		t.Fatalf("expected month FEB25 from file name, got %s", res.Month)
	}
	if res.Applied != 1 {
		t.Fatalf("expected 1 applied record, got %d", res.Applied)
	}

	entries := sink.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 sink entry, got %d", len(entries))
	}
	if entries[0].Source != "feb25.txt" {
		t.Fatalf("expected error labeled with file name, got %q", entries[0].Source)
	}
}

func TestRemoveMonth(t *testing.T) {
	svc := NewPayrollService(nil, nil)
	svc.LoadRegistry(testRoster(t))

	ctx := context.Background()
	records := []core.HourRecord{{EmployeeID: "E1", Hours: dec(t, "160")}}
	if _, err := svc.Ingest(ctx, "jan25", records, nil); err != nil {
		t.Fatal(err)
	}

	if !svc.RemoveMonth(ctx, "jan25") {
		t.Fatal("expected removal of processed month")
	}
	if svc.RemoveMonth(ctx, "jan25") {
		t.Fatal("expected second removal to report false")
	}
	if _, ok := svc.MonthSummary("jan25"); ok {
		t.Fatal("removed month still queryable")
	}
}

func TestLoadDirectory(t *testing.T) {
	svc := NewPayrollService(nil, nil)
	svc.LoadRegistry(testRoster(t))

	dir := t.TempDir()
	files := map[string]string{
		"jan25.txt":     "E1 160\nE2 100\n",
		"feb25.txt":     "E1 150\n",
		"employees.txt": "E1 Alice 15.00\n",
		"notes.md":      "not a pay file\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	results, err := svc.LoadDirectory(context.Background(), dir, "employees.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 ingested files, got %d", len(results))
	}
	// file name order: feb25.txt before jan25.txt
	if results[0].Month != "FEB25" || results[1].Month != "JAN25" {
		t.Fatalf("unexpected batch order: %s, %s", results[0].Month, results[1].Month)
	}

	months := svc.ProcessedMonths()
	if len(months) != 2 {
		t.Fatalf("expected 2 processed months, got %v", months)
	}
}

func TestLoadRegistryFile(t *testing.T) {
	svc := NewPayrollService(nil, nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "employees.txt")
	content := "E1 Alice 15.00\nE2 Bob 10.00\n# comment\nbroken\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := svc.LoadRegistryFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 employees loaded, got %d", n)
	}

	if _, err := svc.LoadRegistryFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatal("expected error for missing registry file")
	}
}
