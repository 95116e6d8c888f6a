// Package luckyboost is the pity meter: dollar losses fill it toward
// MaxProgress, a full meter pays a milestone reward, and progress past the
// cap is carried over instead of discarded.
package luckyboost

import "github.com/shopspring/decimal"

// MaxProgress is the dollar amount of losses that fills the meter.
var MaxProgress = decimal.NewFromInt(1000)

// IsWin reports whether a card at least pays back its pack.
func IsWin(packPrice, cardValue decimal.Decimal) bool {
	return cardValue.GreaterThanOrEqual(packPrice)
}

// CalculateProgress returns the dollars a pack open adds to the meter: zero
// for a win, otherwise the amount lost.
func CalculateProgress(packPrice, cardValue decimal.Decimal) decimal.Decimal {
	if IsWin(packPrice, cardValue) {
		return decimal.Zero
	}
	return packPrice.Sub(cardValue)
}

// ProgressPercentage maps dollars of progress onto [0, 100].
func ProgressPercentage(progress decimal.Decimal) float64 {
	pct, _ := progress.Div(MaxProgress).Mul(decimal.NewFromInt(100)).Float64()
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
