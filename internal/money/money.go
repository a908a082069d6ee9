// Package money parses user-typed amounts and renders them in the BRL display
// format used across the ledger (R$ 1.234,56).
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places every amount is kept at.
const Scale = 2

// ErrNotANumber is returned when an amount string is not a decimal number.
var ErrNotANumber = errors.New("amount is not a number")

// ParseAmount converts free text into an amount rounded to cents.
// Both "10,50" and "10.50" are accepted. Sign is preserved so callers can
// reject non-positive values with their own error.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrNotANumber
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNotANumber
	}
	return d.Round(Scale), nil
}

// Format renders an amount as "R$ 1.234,56".
func Format(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(Scale)

	intPart, frac := s, "00"
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i+1:]
	}

	var b strings.Builder
	b.WriteString("R$ ")
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
