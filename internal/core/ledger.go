package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EmployeeRecord is one parsed registry line: identifier, display name and
// hourly rate. Produced by a collaborator (file parser, HTTP body); the
// ledger only sees well-formed records.
type EmployeeRecord struct {
	ID         string
	Name       string
	HourlyRate decimal.Decimal
}

// HourRecord is one parsed pay-file line: identifier plus hours worked.
type HourRecord struct {
	EmployeeID string
	Hours      decimal.Decimal
}

// RecordError is a per-record business error, collected during ingestion
// and handed to an error sink by the calling shell. Source labels where the
// record came from (month key or file name).
type RecordError struct {
	Source  string
	Message string
}

// IngestStatus tells the caller how an ingestion attempt ended.
type IngestStatus int

const (
	// StatusApplied means the month's records were merged into the ledger.
	StatusApplied IngestStatus = iota

	// StatusAlreadyProcessed means the month key was ingested before and the
	// caller did not ask for a replace. Nothing changed; the caller must
	// resolve the decision and retry with replace set, or give up.
	StatusAlreadyProcessed

	// StatusSkipped means the caller declined to replace an already
	// processed month. Nothing changed.
	StatusSkipped
)

func (s IngestStatus) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusAlreadyProcessed:
		return "already processed"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// IngestResult reports the outcome of one Ingest call.
type IngestResult struct {
	Month    string
	Status   IngestStatus
	Replaced bool
	Applied  int
	Errors   []RecordError
}

// Ledger owns the employee registry and the set of processed months.
// It is a purely sequential in-memory structure: no I/O, no locking. A
// caller exposing it to concurrent use wraps it with its own lock (the
// service layer does exactly that).
type Ledger struct {
	employees map[string]*Employee

	// processed keeps insertion order for display; member tracks presence.
	processed []string
	member    map[string]struct{}
}

// NewLedger returns an empty ledger ready for a registry load.
func NewLedger() *Ledger {
	return &Ledger{
		employees: make(map[string]*Employee),
		member:    make(map[string]struct{}),
	}
}

// LoadRegistry rebuilds the roster from registry records. Identifiers are
// normalized and duplicates resolve last-wins. Loading a registry resets
// the ledger: hour data and processed months belong to the roster they
// were recorded against.
func (l *Ledger) LoadRegistry(records []EmployeeRecord) {
	l.employees = make(map[string]*Employee, len(records))
	l.processed = nil
	l.member = make(map[string]struct{})
	for _, r := range records {
		id := NormalizeID(r.ID)
		if id == "" {
			continue
		}
		l.employees[id] = &Employee{
			ID:         id,
			Name:       r.Name,
			HourlyRate: r.HourlyRate,
			Hours:      make(map[string]decimal.Decimal),
		}
	}
}

// Ingest merges one month's hour records into the ledger.
//
// If the month key was already processed and replace is false, the call
// returns StatusAlreadyProcessed without touching any state; the caller
// decides whether to retry with replace set. With replace set, every
// existing hour entry for the month is removed before re-ingestion, so the
// result is identical to ingesting the new records into a ledger that had
// never seen the month. Unknown identifiers are collected as RecordErrors
// and do not create roster entries; known identifiers overwrite (never
// accumulate) the month's hours.
func (l *Ledger) Ingest(month string, records []HourRecord, replace bool) IngestResult {
	key := NormalizeMonthKey(month)
	res := IngestResult{Month: key, Status: StatusApplied}

	if _, done := l.member[key]; done {
		if !replace {
			res.Status = StatusAlreadyProcessed
			return res
		}
		l.RemoveMonth(key)
		res.Replaced = true
	}

	for _, r := range records {
		id := NormalizeID(r.EmployeeID)
		emp, ok := l.employees[id]
		if !ok {
			res.Errors = append(res.Errors, RecordError{
				Source:  key,
				Message: fmt.Sprintf("%s is not a valid employee ID", id),
			})
			continue
		}
		emp.Hours[key] = r.Hours
		res.Applied++
	}

	if _, done := l.member[key]; !done {
		l.member[key] = struct{}{}
		l.processed = append(l.processed, key)
	}
	return res
}

// RemoveMonth deletes the month's hour entries from every employee and
// drops the key from the processed sequence. Removing a key that was never
// processed is a no-op. Used by the replace flow but exposed on its own.
func (l *Ledger) RemoveMonth(month string) {
	key := NormalizeMonthKey(month)
	for _, emp := range l.employees {
		delete(emp.Hours, key)
	}
	if _, ok := l.member[key]; !ok {
		return
	}
	delete(l.member, key)
	for i, m := range l.processed {
		if m == key {
			l.processed = append(l.processed[:i], l.processed[i+1:]...)
			break
		}
	}
}

// Processed reports whether the month key has been ingested.
func (l *Ledger) Processed(month string) bool {
	_, ok := l.member[NormalizeMonthKey(month)]
	return ok
}

// ProcessedMonths returns the ingested month keys in insertion order.
func (l *Ledger) ProcessedMonths() []string {
	out := make([]string, len(l.processed))
	copy(out, l.processed)
	return out
}
