// Package worker turns payroll events into flat report files. It is the
// consumer side of the events queue: month reports become
// "<month>_output.txt" files and record errors are appended to the error
// log.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"payroll/internal/amqp"
	"payroll/internal/core"
	"payroll/internal/log"
	"payroll/internal/report"
)

// ReportWorker writes report files for consumed payroll events.
type ReportWorker struct {
	outputDir string
	sink      report.ErrorSink
}

// NewReportWorker writes month reports into outputDir and record errors
// into the given sink.
func NewReportWorker(outputDir string, sink report.ErrorSink) *ReportWorker {
	return &ReportWorker{outputDir: outputDir, sink: sink}
}

// HandleMonthReport writes the event's pay table to the month's output
// file. A replaced month simply overwrites the previous file.
func (w *ReportWorker) HandleMonthReport(ctx context.Context, msg amqp.MonthReportMessage) error {
	lines := make([]core.PayLine, 0, len(msg.Lines))
	for _, ln := range msg.Lines {
		lines = append(lines, core.PayLine{
			EmployeeID: ln.EmployeeID,
			Name:       ln.Name,
			HourlyRate: ln.HourlyRate,
			Hours:      ln.Hours,
			Gross:      ln.Gross,
			Tax:        ln.Tax,
			Net:        ln.Net,
		})
	}

	path, err := report.WriteMonthFile(w.outputDir, msg.Month, lines)
	if err != nil {
		return fmt.Errorf("write month report: %w", err)
	}

	slog.InfoContext(ctx, "Wrote month report",
		log.FieldMonth, msg.Month,
		"path", path,
		"lines", len(lines),
		"replaced", msg.Replaced)
	return nil
}

// HandleRecordErrors appends the event's errors to the error sink.
func (w *ReportWorker) HandleRecordErrors(ctx context.Context, msg amqp.RecordErrorsMessage) error {
	entries := make([]core.RecordError, 0, len(msg.Errors))
	for _, e := range msg.Errors {
		entries = append(entries, core.RecordError{Source: msg.Source, Message: e})
	}

	if err := w.sink.Record(entries); err != nil {
		return fmt.Errorf("record event errors: %w", err)
	}

	slog.InfoContext(ctx, "Recorded ingestion errors",
		log.FieldSource, msg.Source,
		log.FieldErrorCount, len(entries))
	return nil
}
