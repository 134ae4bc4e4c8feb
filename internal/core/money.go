// Package core holds the domain value types shared by the analysis engine,
// the storage layer and the HTTP surface.
//
// This file contains helpers for parsing and displaying monetary amounts.
// Amounts are decimal values; two-decimal rounding happens only when an
// amount is rendered, never inside a computation.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Returns
// an error for invalid formats, negative values, or zero amounts.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// DisplayAmount renders an amount with two decimals for presentation.
func DisplayAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// AmountFromCents converts integer cents (the storage representation) to a
// decimal amount.
func AmountFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Cents converts an amount to integer cents with half-up rounding on the
// third decimal place. Used only at the storage boundary.
func Cents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}
