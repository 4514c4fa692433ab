// Package services orchestrates payroll operations over the in-memory
// ledger: registry loads, pay file ingestion, queries and event publishing.
// The service serializes ledger access with a read-write lock so the HTTP
// server and batch loader can share one instance.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"payroll/internal/amqp"
	"payroll/internal/core"
	"payroll/internal/log"
	"payroll/internal/payfile"
	"payroll/internal/report"
)

// EventPublisher is the slice of the AMQP client the service needs. A nil
// publisher disables event publishing.
type EventPublisher interface {
	PublishMonthReport(ctx context.Context, msg amqp.MonthReportMessage) error
	PublishRecordErrors(ctx context.Context, msg amqp.RecordErrorsMessage) error
}

// ReplaceDecision resolves an already-processed month during ingestion.
// Returning true replaces the month's data; false leaves it untouched.
// The console shell prompts the operator; the HTTP layer answers from the
// request's replace parameter.
type ReplaceDecision func(month string) bool

// PayrollService orchestrates ledger operations across parsing, the error
// sink and AMQP
type PayrollService struct {
	mu     sync.RWMutex
	ledger *core.Ledger
	sink   report.ErrorSink
	events EventPublisher
}

// NewPayrollService wires a fresh ledger to the given sink and publisher.
// A nil sink falls back to an in-memory one; a nil publisher disables
// events.
func NewPayrollService(sink report.ErrorSink, events EventPublisher) *PayrollService {
	if sink == nil {
		sink = report.NewMemorySink()
	}
	return &PayrollService{
		ledger: core.NewLedger(),
		sink:   sink,
		events: events,
	}
}

// LoadRegistry replaces the roster with the given records. All hour data
// and processed months are discarded with it.
func (s *PayrollService) LoadRegistry(records []core.EmployeeRecord) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.LoadRegistry(records)
	return len(s.ledger.Roster())
}

// LoadRegistryFile reads and loads the registry from a flat text file.
func (s *PayrollService) LoadRegistryFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open registry %s: %w", path, err)
	}
	defer f.Close()

	records, err := payfile.ParseRegistry(f)
	if err != nil {
		return 0, err
	}
	return s.LoadRegistry(records), nil
}

// Ingest merges one month's hour records into the ledger. When the month
// was processed before, decide resolves whether to replace; a nil decide
// declines. Record errors go to the sink, and a report event is published
// after every applied ingestion.
func (s *PayrollService) Ingest(ctx context.Context, month string, records []core.HourRecord, decide ReplaceDecision) (core.IngestResult, error) {
	return s.ingest(ctx, month, records, decide, "")
}

// IngestReader parses hour records from r and ingests them under the given
// month key. The replace flag stands in for an interactive decision.
func (s *PayrollService) IngestReader(ctx context.Context, month string, r io.Reader, replace bool) (core.IngestResult, error) {
	records, err := payfile.ParsePayFile(r)
	if err != nil {
		return core.IngestResult{}, err
	}
	return s.ingest(ctx, month, records, func(string) bool { return replace }, "")
}

// ProcessPayFile parses and ingests one pay file. The month key comes from
// the file name; record errors are labeled with the file's base name so the
// error log points back at the offending file.
func (s *PayrollService) ProcessPayFile(ctx context.Context, path string, decide ReplaceDecision) (core.IngestResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.IngestResult{}, fmt.Errorf("open pay file %s: %w", path, err)
	}
	defer f.Close()

	records, err := payfile.ParsePayFile(f)
	if err != nil {
		return core.IngestResult{}, err
	}

	month := payfile.MonthKeyFromFilename(path)
	return s.ingest(ctx, month, records, decide, filepath.Base(path))
}

func (s *PayrollService) ingest(ctx context.Context, month string, records []core.HourRecord, decide ReplaceDecision, source string) (core.IngestResult, error) {
	s.mu.Lock()
	res := s.ledger.Ingest(month, records, false)
	if res.Status == core.StatusAlreadyProcessed {
		if decide == nil || !decide(res.Month) {
			s.mu.Unlock()
			res.Status = core.StatusSkipped
			slog.InfoContext(ctx, "Skipped already processed month", log.FieldMonth, res.Month)
			return res, nil
		}
		res = s.ledger.Ingest(month, records, true)
	}

	var lines []core.PayLine
	if res.Status == core.StatusApplied {
		lines, _ = s.ledger.MonthSummary(res.Month)
	}
	s.mu.Unlock()

	if source != "" {
		for i := range res.Errors {
			res.Errors[i].Source = source
		}
	}

	if err := s.sink.Record(res.Errors); err != nil {
		return res, fmt.Errorf("record ingestion errors: %w", err)
	}

	slog.InfoContext(ctx, "Ingested month",
		log.FieldMonth, res.Month,
		log.FieldApplied, res.Applied,
		"replaced", res.Replaced,
		log.FieldErrorCount, len(res.Errors))

	s.publishIngestEvents(ctx, res, lines)
	return res, nil
}

func (s *PayrollService) publishIngestEvents(ctx context.Context, res core.IngestResult, lines []core.PayLine) {
	if s.events == nil {
		return
	}

	if res.Status == core.StatusApplied {
		msg := amqp.MonthReportMessage{
			Month:    res.Month,
			Replaced: res.Replaced,
			Lines:    make([]amqp.ReportLine, 0, len(lines)),
		}
		for _, ln := range lines {
			msg.Lines = append(msg.Lines, amqp.ReportLine{
				EmployeeID: ln.EmployeeID,
				Name:       ln.Name,
				HourlyRate: ln.HourlyRate,
				Hours:      ln.Hours,
				Gross:      ln.Gross,
				Tax:        ln.Tax,
				Net:        ln.Net,
			})
		}
		if err := s.events.PublishMonthReport(ctx, msg); err != nil {
			// Ledger state is already updated; the report can be regenerated.
			slog.ErrorContext(ctx, "Failed to publish month report event",
				log.FieldMonth, res.Month, log.FieldError, err)
		}
	}

	if len(res.Errors) > 0 {
		msg := amqp.RecordErrorsMessage{Source: res.Errors[0].Source}
		for _, e := range res.Errors {
			msg.Errors = append(msg.Errors, e.Message)
		}
		if err := s.events.PublishRecordErrors(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish record errors event",
				log.FieldSource, msg.Source, log.FieldError, err)
		}
	}
}

// RemoveMonth drops the month's hour data from every employee. Reports
// whether the month had been processed.
func (s *PayrollService) RemoveMonth(ctx context.Context, month string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ledger.Processed(month) {
		return false
	}
	s.ledger.RemoveMonth(month)
	slog.InfoContext(ctx, "Removed month", log.FieldMonth, core.NormalizeMonthKey(month))
	return true
}

// MonthSummary returns the month's pay lines by identifier ascending.
func (s *PayrollService) MonthSummary(month string) ([]core.PayLine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.MonthSummary(month)
}

// SortedMonth returns the month's pay lines ordered by the criterion.
func (s *PayrollService) SortedMonth(month string, by core.SortCriterion) ([]core.PayLine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.SortedMonth(month, by)
}

// EmployeeDetail returns the per-month breakdown for one employee.
func (s *PayrollService) EmployeeDetail(id string) (core.EmployeeDetail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.EmployeeDetail(id)
}

// EmployeeTotals returns the aggregates for one employee.
func (s *PayrollService) EmployeeTotals(id string) (core.Totals, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.EmployeeTotals(id)
}

// ProcessedMonths returns the ingested month keys in processing order.
func (s *PayrollService) ProcessedMonths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.ProcessedMonths()
}

// Roster returns the registry records by identifier ascending.
func (s *PayrollService) Roster() []core.EmployeeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Roster()
}
