package core

import (
	"reflect"
	"testing"
)

func testRegistry(t *testing.T) []EmployeeRecord {
	t.Helper()
	mk := func(id, name, rate string) EmployeeRecord {
		r, err := ParseAmount(rate)
		if err != nil {
			t.Fatalf("parse rate %q: %v", rate, err)
		}
		return EmployeeRecord{ID: id, Name: name, HourlyRate: r}
	}
	return []EmployeeRecord{
		mk("E1", "Alice", "15.00"),
		mk("E2", "Bob", "10.00"),
		mk("E3", "Carol", "20.00"),
	}
}

func hourRecords(t *testing.T, pairs ...string) []HourRecord {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatal("hourRecords wants id/hours pairs")
	}
	var out []HourRecord
	for i := 0; i < len(pairs); i += 2 {
		h, err := ParseAmount(pairs[i+1])
		if err != nil {
			t.Fatalf("parse hours %q: %v", pairs[i+1], err)
		}
		out = append(out, HourRecord{EmployeeID: pairs[i], Hours: h})
	}
	return out
}

func TestLoadRegistryNormalizesAndLastWins(t *testing.T) {
	l := NewLedger()
	recs := testRegistry(t)
	// Duplicate identifier with different casing: the later record wins.
	dup := recs[0]
	dup.ID = " e1 "
	dup.Name = "Alice2"
	l.LoadRegistry(append(recs, dup))

	detail, ok := l.EmployeeDetail("e1")
	if !ok {
		t.Fatal("expected E1 in roster")
	}
	if detail.EmployeeID != "E1" || detail.Name != "Alice2" {
		t.Fatalf("expected normalized last-wins record, got %+v", detail)
	}
	if len(l.Roster()) != 3 {
		t.Fatalf("expected 3 roster entries, got %d", len(l.Roster()))
	}
}

func TestIngestCollectsUnknownIDs(t *testing.T) {
	l := NewLedger()
	l.LoadRegistry(testRegistry(t))

	res := l.Ingest("jan25", hourRecords(t, "e1", "160", "ZZZ", "10", "E2", "100"), false)
	if res.Status != StatusApplied {
		t.Fatalf("expected applied, got %v", res.Status)
	}
	if res.Month != "JAN25" {
		t.Fatalf("expected normalized month key, got %q", res.Month)
	}
	if res.Applied != 2 {
		t.Fatalf("expected 2 applied records, got %d", res.Applied)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected exactly one record error, got %v", res.Errors)
	}
	if res.Errors[0].Message != "ZZZ is not a valid employee ID" {
		t.Fatalf("unexpected error message %q", res.Errors[0].Message)
	}
	// The unknown identifier must not create a roster entry.
	if _, ok := l.EmployeeDetail("ZZZ"); ok {
		t.Fatal("unknown ID created an employee record")
	}
	if got := l.ProcessedMonths(); !reflect.DeepEqual(got, []string{"JAN25"}) {
		t.Fatalf("processed months: %v", got)
	}
}

func TestIngestDeclinedLeavesStateUntouched(t *testing.T) {
	l := NewLedger()
	l.LoadRegistry(testRegistry(t))
	l.Ingest("JAN25", hourRecords(t, "E1", "160"), false)

	before, _ := l.MonthSummary("JAN25")
	res := l.Ingest("JAN25", hourRecords(t, "E1", "999", "E2", "50"), false)
	if res.Status != StatusAlreadyProcessed {
		t.Fatalf("expected already-processed outcome, got %v", res.Status)
	}
	after, _ := l.MonthSummary("JAN25")
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("state changed on declined re-ingest:\nbefore %v\nafter  %v", before, after)
	}
	if got := l.ProcessedMonths(); !reflect.DeepEqual(got, []string{"JAN25"}) {
		t.Fatalf("processed months: %v", got)
	}
}

func TestIngestReplaceMatchesFreshLedger(t *testing.T) {
	first := hourRecords(t, "E1", "160", "E2", "100")
	second := hourRecords(t, "E2", "80", "E3", "120")

	replaced := NewLedger()
	replaced.LoadRegistry(testRegistry(t))
	replaced.Ingest("JAN25", first, false)
	res := replaced.Ingest("JAN25", second, true)
	if res.Status != StatusApplied || !res.Replaced {
		t.Fatalf("expected applied replace, got %+v", res)
	}

	fresh := NewLedger()
	fresh.LoadRegistry(testRegistry(t))
	fresh.Ingest("JAN25", second, false)

	gotLines, _ := replaced.MonthSummary("JAN25")
	wantLines, _ := fresh.MonthSummary("JAN25")
	if !reflect.DeepEqual(gotLines, wantLines) {
		t.Fatalf("replace left residue:\ngot  %v\nwant %v", gotLines, wantLines)
	}
	// E1 contributed only to the replaced file; no trace may remain.
	detail, _ := replaced.EmployeeDetail("E1")
	if len(detail.Months) != 0 {
		t.Fatalf("expected no months for E1 after replace, got %v", detail.Months)
	}
	if !reflect.DeepEqual(replaced.ProcessedMonths(), fresh.ProcessedMonths()) {
		t.Fatalf("processed months differ: %v vs %v",
			replaced.ProcessedMonths(), fresh.ProcessedMonths())
	}
}

func TestRemoveMonth(t *testing.T) {
	l := NewLedger()
	l.LoadRegistry(testRegistry(t))
	l.Ingest("JAN25", hourRecords(t, "E1", "160", "E2", "100"), false)
	l.Ingest("FEB25", hourRecords(t, "E1", "150"), false)

	l.RemoveMonth("jan25")

	if l.Processed("JAN25") {
		t.Fatal("JAN25 still marked processed")
	}
	if got := l.ProcessedMonths(); !reflect.DeepEqual(got, []string{"FEB25"}) {
		t.Fatalf("processed months: %v", got)
	}
	for _, id := range []string{"E1", "E2"} {
		detail, _ := l.EmployeeDetail(id)
		for _, m := range detail.Months {
			if m.Month == "JAN25" {
				t.Fatalf("%s still has JAN25 hours", id)
			}
		}
	}

	// Removing a never-processed key is a no-op.
	l.RemoveMonth("DEC99")
	if got := l.ProcessedMonths(); !reflect.DeepEqual(got, []string{"FEB25"}) {
		t.Fatalf("no-op removal changed state: %v", got)
	}
}

func TestProcessedMonthsKeepInsertionOrder(t *testing.T) {
	l := NewLedger()
	l.LoadRegistry(testRegistry(t))
	for _, m := range []string{"MAR25", "JAN25", "FEB25"} {
		l.Ingest(m, hourRecords(t, "E1", "10"), false)
	}
	want := []string{"MAR25", "JAN25", "FEB25"}
	if got := l.ProcessedMonths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
