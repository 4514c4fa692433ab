package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// PayLine is one employee's derived figures for one month. Figures are
// recomputed from rate and hours on every query, never stored.
type PayLine struct {
	EmployeeID string
	Name       string
	HourlyRate decimal.Decimal
	Hours      decimal.Decimal
	Gross      decimal.Decimal
	Tax        decimal.Decimal
	Net        decimal.Decimal
}

// MonthFigure is one month's derived figures inside an employee breakdown.
type MonthFigure struct {
	Month string
	Hours decimal.Decimal
	Gross decimal.Decimal
	Tax   decimal.Decimal
	Net   decimal.Decimal
}

// Totals aggregates an employee's figures across all recorded months.
type Totals struct {
	Gross decimal.Decimal
	Tax   decimal.Decimal
	Net   decimal.Decimal
}

// EmployeeDetail is the full per-employee breakdown: one figure per
// recorded month in sorted month-key order, plus the three totals.
type EmployeeDetail struct {
	EmployeeID string
	Name       string
	HourlyRate decimal.Decimal
	Months     []MonthFigure
	Totals     Totals
}

// SortCriterion selects the descending sort key for SortedMonth.
type SortCriterion int

const (
	SortByHourlyRate SortCriterion = iota
	SortByHoursWorked
	SortByNetPay
)

// ParseSortCriterion maps the wire tokens used by the shells onto a
// criterion. Unknown tokens report false.
func ParseSortCriterion(s string) (SortCriterion, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rate":
		return SortByHourlyRate, true
	case "hours":
		return SortByHoursWorked, true
	case "net":
		return SortByNetPay, true
	default:
		return 0, false
	}
}

func (c SortCriterion) String() string {
	switch c {
	case SortByHourlyRate:
		return "rate"
	case SortByHoursWorked:
		return "hours"
	case SortByNetPay:
		return "net"
	default:
		return "unknown"
	}
}

func (l *Ledger) payLine(emp *Employee, month string) PayLine {
	return PayLine{
		EmployeeID: emp.ID,
		Name:       emp.Name,
		HourlyRate: emp.HourlyRate,
		Hours:      emp.Hours[month],
		Gross:      emp.GrossPay(month),
		Tax:        emp.Tax(month),
		Net:        emp.NetPay(month),
	}
}

// MonthSummary returns a pay line for every employee with hours recorded
// in the month, ordered by identifier ascending. The bool reports whether
// the month key has been processed at all.
func (l *Ledger) MonthSummary(month string) ([]PayLine, bool) {
	key := NormalizeMonthKey(month)
	if !l.Processed(key) {
		return nil, false
	}
	var lines []PayLine
	for _, emp := range l.employees {
		if _, ok := emp.Hours[key]; ok {
			lines = append(lines, l.payLine(emp, key))
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].EmployeeID < lines[j].EmployeeID
	})
	return lines, true
}

// SortedMonth returns the month's pay lines ordered by the criterion,
// descending. Exactly equal keys fall back to identifier ascending so
// repeated calls always produce the same order.
func (l *Ledger) SortedMonth(month string, by SortCriterion) ([]PayLine, bool) {
	lines, ok := l.MonthSummary(month)
	if !ok {
		return nil, false
	}
	keyOf := func(ln PayLine) decimal.Decimal {
		switch by {
		case SortByHoursWorked:
			return ln.Hours
		case SortByNetPay:
			return ln.Net
		default:
			return ln.HourlyRate
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		cmp := keyOf(lines[i]).Cmp(keyOf(lines[j]))
		if cmp != 0 {
			return cmp > 0
		}
		return lines[i].EmployeeID < lines[j].EmployeeID
	})
	return lines, true
}

// EmployeeDetail returns the per-month breakdown and totals for one
// employee, months in sorted key order. The bool reports roster membership.
func (l *Ledger) EmployeeDetail(id string) (EmployeeDetail, bool) {
	emp, ok := l.employees[NormalizeID(id)]
	if !ok {
		return EmployeeDetail{}, false
	}
	detail := EmployeeDetail{
		EmployeeID: emp.ID,
		Name:       emp.Name,
		HourlyRate: emp.HourlyRate,
		Totals: Totals{
			Gross: emp.TotalGross(),
			Tax:   emp.TotalTax(),
			Net:   emp.TotalNet(),
		},
	}
	for _, m := range emp.Months() {
		detail.Months = append(detail.Months, MonthFigure{
			Month: m,
			Hours: emp.Hours[m],
			Gross: emp.GrossPay(m),
			Tax:   emp.Tax(m),
			Net:   emp.NetPay(m),
		})
	}
	return detail, true
}

// EmployeeTotals returns just the three aggregates for one employee.
func (l *Ledger) EmployeeTotals(id string) (Totals, bool) {
	emp, ok := l.employees[NormalizeID(id)]
	if !ok {
		return Totals{}, false
	}
	return Totals{
		Gross: emp.TotalGross(),
		Tax:   emp.TotalTax(),
		Net:   emp.TotalNet(),
	}, true
}

// Roster returns the registry as records, identifier ascending. Shells use
// it for selection menus and listings.
func (l *Ledger) Roster() []EmployeeRecord {
	out := make([]EmployeeRecord, 0, len(l.employees))
	for _, emp := range l.employees {
		out = append(out, EmployeeRecord{ID: emp.ID, Name: emp.Name, HourlyRate: emp.HourlyRate})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
