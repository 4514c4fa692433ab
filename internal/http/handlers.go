package http

import (
	"fmt"
	"net/http"

	"payroll/internal/core"
)

func (s *Server) handleListMonths(w http.ResponseWriter, r *http.Request) {
	months := s.svc.ProcessedMonths()
	if months == nil {
		months = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"months": months})
}

func (s *Server) handleGetMonth(w http.ResponseWriter, r *http.Request) {
	key := core.NormalizeMonthKey(r.PathValue("key"))

	if lines, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, toMonthJSON(key, lines))
		return
	}

	lines, ok := s.svc.MonthSummary(key)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("month %s has not been processed", key))
		return
	}
	s.summaryCache.Set(key, lines)
	writeJSON(w, http.StatusOK, toMonthJSON(key, lines))
}

func (s *Server) handleSortedMonth(w http.ResponseWriter, r *http.Request) {
	key := core.NormalizeMonthKey(r.PathValue("key"))

	byParam := r.URL.Query().Get("by")
	if byParam == "" {
		byParam = "rate"
	}
	criterion, ok := core.ParseSortCriterion(byParam)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid sort criterion %q: must be rate, hours or net", byParam))
		return
	}

	cacheKey := key + "|" + criterion.String()
	if lines, ok := s.sortedCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, toMonthJSON(key, lines))
		return
	}

	lines, ok := s.svc.SortedMonth(key, criterion)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("month %s has not been processed", key))
		return
	}
	s.sortedCache.Set(cacheKey, lines)
	writeJSON(w, http.StatusOK, toMonthJSON(key, lines))
}

// handleIngestMonth ingests the request body as a pay file for the month
// in the path. Re-posting a processed month without replace=true is a
// conflict; with it, the month's data is replaced wholesale.
func (s *Server) handleIngestMonth(w http.ResponseWriter, r *http.Request) {
	key := core.NormalizeMonthKey(r.PathValue("key"))
	if key == "" {
		writeError(w, http.StatusBadRequest, "month key cannot be empty")
		return
	}

	replace := r.URL.Query().Get("replace") == "true"

	res, err := s.svc.IngestReader(r.Context(), key, r.Body, replace)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if res.Status == core.StatusSkipped {
		writeError(w, http.StatusConflict,
			fmt.Sprintf("month %s has already been processed; retry with replace=true", res.Month))
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusOK, toIngestResultJSON(res))
}

func (s *Server) handleRemoveMonth(w http.ResponseWriter, r *http.Request) {
	key := core.NormalizeMonthKey(r.PathValue("key"))

	if !s.svc.RemoveMonth(r.Context(), key) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("month %s has not been processed", key))
		return
	}

	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	roster := s.svc.Roster()
	employees := make([]employeeJSON, 0, len(roster))
	for _, rec := range roster {
		employees = append(employees, employeeJSON{
			EmployeeID: rec.ID,
			Name:       rec.Name,
			HourlyRate: rec.HourlyRate.StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, map[string][]employeeJSON{"employees": employees})
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id := core.NormalizeID(r.PathValue("id"))

	detail, ok := s.svc.EmployeeDetail(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s is not a valid employee ID", id))
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDetailJSON(detail))
}

func (s *Server) handleEmployeeTotals(w http.ResponseWriter, r *http.Request) {
	id := core.NormalizeID(r.PathValue("id"))

	totals, ok := s.svc.EmployeeTotals(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s is not a valid employee ID", id))
		return
	}
	writeJSON(w, http.StatusOK, toTotalsJSON(totals))
}
