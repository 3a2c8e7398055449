package engine

import "github.com/shopspring/decimal"

// displayPlaces is the number of fractional digits emitted in records.
const displayPlaces = 2

// Round rounds half away from zero to the display precision.
func Round(v float64) float64 {
	return toDisplay(v).InexactFloat64()
}

func toDisplay(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(displayPlaces)
}
