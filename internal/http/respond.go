package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"payroll/internal/core"
)

// Wire representations. Money and hours travel as fixed two-decimal
// strings so clients never see float artifacts.

type payLineJSON struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	HourlyRate string `json:"hourly_rate"`
	Hours      string `json:"hours"`
	Gross      string `json:"gross"`
	Tax        string `json:"tax"`
	Net        string `json:"net"`
}

type monthJSON struct {
	Month string        `json:"month"`
	Lines []payLineJSON `json:"lines"`
}

type ingestResultJSON struct {
	Month    string   `json:"month"`
	Status   string   `json:"status"`
	Replaced bool     `json:"replaced"`
	Applied  int      `json:"applied"`
	Errors   []string `json:"errors"`
}

type employeeJSON struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	HourlyRate string `json:"hourly_rate"`
}

type monthFigureJSON struct {
	Month string `json:"month"`
	Hours string `json:"hours"`
	Gross string `json:"gross"`
	Tax   string `json:"tax"`
	Net   string `json:"net"`
}

type totalsJSON struct {
	Gross string `json:"gross"`
	Tax   string `json:"tax"`
	Net   string `json:"net"`
}

type employeeDetailJSON struct {
	EmployeeID string            `json:"employee_id"`
	Name       string            `json:"name"`
	HourlyRate string            `json:"hourly_rate"`
	Months     []monthFigureJSON `json:"months"`
	Totals     totalsJSON        `json:"totals"`
}

func toPayLineJSON(ln core.PayLine) payLineJSON {
	return payLineJSON{
		EmployeeID: ln.EmployeeID,
		Name:       ln.Name,
		HourlyRate: ln.HourlyRate.StringFixed(2),
		Hours:      ln.Hours.StringFixed(2),
		Gross:      ln.Gross.StringFixed(2),
		Tax:        ln.Tax.StringFixed(2),
		Net:        ln.Net.StringFixed(2),
	}
}

func toMonthJSON(month string, lines []core.PayLine) monthJSON {
	out := monthJSON{Month: month, Lines: make([]payLineJSON, 0, len(lines))}
	for _, ln := range lines {
		out.Lines = append(out.Lines, toPayLineJSON(ln))
	}
	return out
}

func toIngestResultJSON(res core.IngestResult) ingestResultJSON {
	out := ingestResultJSON{
		Month:    res.Month,
		Status:   res.Status.String(),
		Replaced: res.Replaced,
		Applied:  res.Applied,
		Errors:   make([]string, 0, len(res.Errors)),
	}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, e.Message)
	}
	return out
}

func toTotalsJSON(t core.Totals) totalsJSON {
	return totalsJSON{
		Gross: t.Gross.StringFixed(2),
		Tax:   t.Tax.StringFixed(2),
		Net:   t.Net.StringFixed(2),
	}
}

func toEmployeeDetailJSON(d core.EmployeeDetail) employeeDetailJSON {
	out := employeeDetailJSON{
		EmployeeID: d.EmployeeID,
		Name:       d.Name,
		HourlyRate: d.HourlyRate.StringFixed(2),
		Months:     make([]monthFigureJSON, 0, len(d.Months)),
		Totals:     toTotalsJSON(d.Totals),
	}
	for _, m := range d.Months {
		out.Months = append(out.Months, monthFigureJSON{
			Month: m.Month,
			Hours: m.Hours.StringFixed(2),
			Gross: m.Gross.StringFixed(2),
			Tax:   m.Tax.StringFixed(2),
			Net:   m.Net.StringFixed(2),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
