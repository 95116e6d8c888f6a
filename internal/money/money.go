// Package money holds the USD helpers shared by the engine. Amounts are
// decimal.Decimal rounded to cents; float64 never carries a balance.
package money

import "github.com/shopspring/decimal"

// Cent is the smallest amount the simulator distinguishes.
var Cent = decimal.New(1, -2)

// USD builds an amount from a float literal, rounded to cents.
func USD(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Cents rounds d half away from zero to two decimals.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Clamp bounds d into [lo, hi].
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}

// NonNegative returns d, or zero when d is negative.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Format renders d as "$1,234.50" for log lines and CLI output.
func Format(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	var out []byte
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, intPart[i])
	}
	prefix := "$"
	if neg {
		prefix = "-$"
	}
	return prefix + string(out) + frac
}
