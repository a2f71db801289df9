// Amount parsing and the cents conversion used at the storage boundary.
//
// Amounts live in the domain as decimal values with at most two fractional
// digits and are persisted as integer cents so database sums stay exact.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-supplied amount string to a decimal with two
// fractional digits. It accepts both dot (12.34) and comma (12,34) decimal
// separators and rounds half-up past the second decimal place. Negative and
// signed inputs are rejected: the stored amount is always non-negative, the
// ledger an entry belongs to carries the sign.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}

// ValidateAmount checks a stored amount: non-negative, at most two
// fractional digits.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return ErrInvalidAmount
	}
	if !d.Equal(d.Round(2)) {
		return ErrInvalidAmount
	}
	return nil
}

// Cents returns the amount as integer cents for persistence.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).IntPart()
}

// AmountFromCents converts persisted integer cents back to a decimal amount.
func AmountFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
