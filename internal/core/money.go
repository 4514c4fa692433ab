// Package core holds the in-memory payroll domain: the employee roster,
// the ledger of processed months and the derived pay calculations.
//
// This file contains the monetary helpers. All rates, hours and pay figures
// are decimal values so that accumulation across many months stays exact;
// rounding to two decimal places happens only at presentation time.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Tax scheme constants. The scheme is a simplified annualized flat-rate
// model: monthly gross is projected to a year, the tax-free allowance is
// subtracted, the remainder is taxed at a single rate and divided back to
// a monthly figure. Real progressive tax bands are out of scope.
var (
	// TaxFreeAllowance is the annual tax-free allowance in currency units.
	TaxFreeAllowance = decimal.NewFromInt(12570)

	// TaxRate is the flat tax rate applied to annual taxable income.
	TaxRate = decimal.New(20, -2) // 0.20

	monthsInYear = decimal.NewFromInt(12)
)

// ErrInvalidAmount is returned for tokens that cannot be read as a decimal.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts a decimal token to a decimal value.
//
// It accepts both dot (12.34) and comma (12,34) separators and trims
// surrounding whitespace. Sign is preserved; call sites decide whether a
// negative value is acceptable for their field.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders a value with exactly two decimal places, rounding
// half away from zero. Used by every collaborator that prints money.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
