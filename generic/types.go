/*
Package generic provides the calendar and money primitives of the engine.

PURPOSE:
  This package contains domain-agnostic types used by the bookkeeping engine.
  Whether bucketing invoices into a month grid or projecting checks into a
  rolling week window, the same Date, Period, and money helpers apply.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: decimal.Decimal, never float64, so sums never drift
  - Currency: ISO-ish currency code carried next to amounts
  - Parsing and presentation helpers (ParseMoney, FormatMoney)

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for every amount
  2. Determinism: no wall-clock reads; callers pass reference dates
  3. Day granularity: Date has no time-of-day component

USAGE:
  amount, err := generic.ParseMoney("1000.50")
  total := generic.Sum(amount, generic.MustParseMoney("99.50"))
  generic.FormatMoney(total) // "1100.00"

SEE ALSO:
  - time.go: Date and calendar utilities
  - period.go: Period, weeks, months, quarters
  - errors.go: Sentinel errors
*/
package generic

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY
// =============================================================================

// Currency is a currency code such as "TRY" or "USD".
type Currency string

// DefaultCurrency is applied to records that do not carry one.
const DefaultCurrency Currency = "TRY"

// NormalizeCurrency upper-cases c and applies the default when empty.
func NormalizeCurrency(c string) Currency {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return DefaultCurrency
	}
	return Currency(c)
}

// ParseMoney parses a decimal string. Empty input is an error; callers decide
// whether a missing amount means zero.
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// MustParseMoney is ParseMoney for literals in tests and fixtures.
func MustParseMoney(s string) decimal.Decimal {
	d, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Sum adds amounts in order.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// FormatMoney renders an amount with two decimal places. Presentation only.
func FormatMoney(d decimal.Decimal) string { return d.StringFixed(2) }
