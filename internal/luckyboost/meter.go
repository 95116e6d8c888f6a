package luckyboost

import (
	"github.com/shopspring/decimal"

	"github.com/xtding233/luckyboost/internal/money"
)

// Meter is the progress arithmetic, free of storage and history.
type Meter struct {
	Progress decimal.Decimal
	Overflow decimal.Decimal
	Max      decimal.Decimal
}

func NewMeter() Meter {
	return Meter{Max: MaxProgress}
}

// Reached reports whether the meter is full and waiting for a claim.
func (m Meter) Reached() bool {
	return m.Progress.GreaterThanOrEqual(m.Max)
}

// Add applies a loss delta. crossed is true only for the delta that takes
// the meter to the cap; once full, further deltas accumulate as overflow.
func (m Meter) Add(delta decimal.Decimal) (next Meter, crossed bool) {
	if !delta.IsPositive() {
		return m, false
	}
	if m.Reached() {
		m.Overflow = m.Overflow.Add(delta)
		return m, false
	}
	sum := m.Progress.Add(delta)
	if sum.LessThan(m.Max) {
		m.Progress = sum
		return m, false
	}
	m.Overflow = m.Overflow.Add(sum.Sub(m.Max))
	m.Progress = m.Max
	return m, true
}

// Claim empties the meter into its overflow. Overflow beyond a full meter
// stays in Overflow.
func (m Meter) Claim() Meter {
	carry := money.NonNegative(m.Overflow)
	m.Overflow = decimal.Zero
	if carry.GreaterThan(m.Max) {
		m.Overflow = carry.Sub(m.Max)
		carry = m.Max
	}
	m.Progress = carry
	return m
}

func (m Meter) Percentage() float64 {
	return ProgressPercentage(m.Progress)
}
