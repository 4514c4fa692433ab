package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Message types carried on the payroll events queue. Every payload travels
// inside an envelope so one queue serves both kinds.
const (
	TypeMonthReport  = "month_report"
	TypeRecordErrors = "record_errors"
)

// Envelope wraps a payload with its type tag for dispatch on the consumer
// side.
type Envelope struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// ReportLine is one employee's figures inside a month report event. The
// event is self-contained so the worker needs no access to the ledger.
type ReportLine struct {
	EmployeeID string          `json:"employee_id"`
	Name       string          `json:"name"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Hours      decimal.Decimal `json:"hours"`
	Gross      decimal.Decimal `json:"gross"`
	Tax        decimal.Decimal `json:"tax"`
	Net        decimal.Decimal `json:"net"`
}

// MonthReportMessage announces that a month was ingested and carries the
// full pay table for the report writer.
type MonthReportMessage struct {
	Month    string       `json:"month"`
	Replaced bool         `json:"replaced"`
	Lines    []ReportLine `json:"lines"`
}

// RecordErrorsMessage carries the per-record errors collected during one
// ingestion, for appending to the error log.
type RecordErrorsMessage struct {
	Source string   `json:"source"`
	Errors []string `json:"errors"`
}

func newEnvelope(typ string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		Type:      typ,
		Timestamp: time.Now(),
		Payload:   raw,
	})
}
