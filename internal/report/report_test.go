package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"payroll/internal/core"
)

func samplePayLines(t *testing.T) []core.PayLine {
	t.Helper()
	l := core.NewLedger()
	rate, _ := core.ParseAmount("15.00")
	l.LoadRegistry([]core.EmployeeRecord{{ID: "E1", Name: "Alice", HourlyRate: rate}})
	hours, _ := core.ParseAmount("160")
	l.Ingest("JAN25", []core.HourRecord{{EmployeeID: "E1", Hours: hours}}, false)
	lines, ok := l.MonthSummary("JAN25")
	if !ok {
		t.Fatal("expected month summary")
	}
	return lines
}

func TestRenderMonthSummary(t *testing.T) {
	var sb strings.Builder
	if err := RenderMonthSummary(&sb, "JAN25", samplePayLines(t)); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"Monthly Summary: JAN25", "E1", "Alice", "£2400.00", "£270.50", "£2129.50"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteMonthFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteMonthFile(dir, "JAN25", samplePayLines(t))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "jan25_output.txt" {
		t.Fatalf("unexpected file name %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "£2129.50") {
		t.Fatalf("file missing net pay column:\n%s", data)
	}
}

func TestFileSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.txt")
	sink := NewFileSink(path)

	if err := sink.Record(nil); err != nil {
		t.Fatalf("empty record: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("empty record should not create the log file")
	}

	first := []core.RecordError{{Source: "jan25.txt", Message: "ZZZ is not a valid employee ID"}}
	second := []core.RecordError{{Source: "feb25.txt", Message: "QQQ is not a valid employee ID"}}
	if err := sink.Record(first); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := sink.Record(second); err != nil {
		t.Fatalf("record: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 log lines, got %d:\n%s", len(lines), data)
	}
	if lines[0] != "jan25.txt" || lines[3] != "QQQ is not a valid employee ID" {
		t.Fatalf("unexpected log layout:\n%s", data)
	}
}

func TestRenderEmployeeDetailAndTotals(t *testing.T) {
	l := core.NewLedger()
	rate, _ := core.ParseAmount("15.00")
	l.LoadRegistry([]core.EmployeeRecord{{ID: "E1", Name: "Alice", HourlyRate: rate}})
	hours, _ := core.ParseAmount("160")
	l.Ingest("JAN25", []core.HourRecord{{EmployeeID: "E1", Hours: hours}}, false)

	detail, _ := l.EmployeeDetail("E1")
	var sb strings.Builder
	if err := RenderEmployeeDetail(&sb, detail); err != nil {
		t.Fatalf("render detail: %v", err)
	}
	if !strings.Contains(sb.String(), "Totals:") || !strings.Contains(sb.String(), "£2129.50") {
		t.Fatalf("detail output incomplete:\n%s", sb.String())
	}

	totals, _ := l.EmployeeTotals("E1")
	sb.Reset()
	if err := RenderTotals(&sb, "E1", "Alice", totals); err != nil {
		t.Fatalf("render totals: %v", err)
	}
	if !strings.Contains(sb.String(), "Total Net:") {
		t.Fatalf("totals output incomplete:\n%s", sb.String())
	}
}
