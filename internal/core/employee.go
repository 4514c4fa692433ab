package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Employee is one roster entry: an immutable identifier, a display name, an
// hourly rate and the hours recorded against each processed month key.
// The rate changes only when the registry is reloaded, never during pay
// processing.
type Employee struct {
	ID         string
	Name       string
	HourlyRate decimal.Decimal

	// Hours maps a normalized month key (e.g. "JAN25") to hours worked.
	Hours map[string]decimal.Decimal
}

// NormalizeID canonicalizes an employee identifier: trimmed, uppercase.
// Applied at every boundary so lookups never fail on casing.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// NormalizeMonthKey canonicalizes a month key the same way identifiers are.
func NormalizeMonthKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// GrossPay returns hourly rate times the hours recorded for the month.
// A month with no recorded hours yields zero; absence is not an error.
func (e *Employee) GrossPay(month string) decimal.Decimal {
	h, ok := e.Hours[NormalizeMonthKey(month)]
	if !ok {
		return decimal.Zero
	}
	return e.HourlyRate.Mul(h)
}

// Tax returns the monthly tax under the annualized flat-rate scheme:
// project the monthly gross to a year, subtract the tax-free allowance,
// clamp at zero, apply the flat rate, divide back to a month.
func (e *Employee) Tax(month string) decimal.Decimal {
	annual := e.GrossPay(month).Mul(monthsInYear)
	taxable := annual.Sub(TaxFreeAllowance)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	return taxable.Mul(TaxRate).Div(monthsInYear)
}

// NetPay returns gross pay minus tax for the month.
func (e *Employee) NetPay(month string) decimal.Decimal {
	return e.GrossPay(month).Sub(e.Tax(month))
}

// Months returns the employee's recorded month keys in sorted order, so
// every listing derived from the hours map is deterministic.
func (e *Employee) Months() []string {
	months := make([]string, 0, len(e.Hours))
	for m := range e.Hours {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

// TotalGross sums gross pay over every recorded month.
func (e *Employee) TotalGross() decimal.Decimal {
	total := decimal.Zero
	for _, m := range e.Months() {
		total = total.Add(e.GrossPay(m))
	}
	return total
}

// TotalTax sums tax over every recorded month.
func (e *Employee) TotalTax() decimal.Decimal {
	total := decimal.Zero
	for _, m := range e.Months() {
		total = total.Add(e.Tax(m))
	}
	return total
}

// TotalNet sums net pay over every recorded month.
func (e *Employee) TotalNet() decimal.Decimal {
	total := decimal.Zero
	for _, m := range e.Months() {
		total = total.Add(e.NetPay(m))
	}
	return total
}
