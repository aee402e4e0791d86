package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is stored and summed as integer minor units (cents). decimal is only
// used at the parse/format boundary, never for running totals.

// FormatCents renders an amount of cents as a decimal string, e.g. 1250 -> "12.50".
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// ParseCents parses a decimal price string into cents.
// Rejects non-positive amounts and sub-cent precision.
func ParseCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("price must be positive")
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("price %q has sub-cent precision", s)
	}
	return cents.IntPart(), nil
}
