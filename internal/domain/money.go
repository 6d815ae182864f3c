package domain

import (
	"fmt"
	"math"
)

// DollarsToCents converts a float64 dollar amount to int64 cents. Prices
// are kept as cents everywhere inside the engine so that price levels
// bucket exactly; floats exist only at the JSON edge. Inputs with more
// than 2 decimal places are rejected rather than rounded.
func DollarsToCents(f float64) (int64, error) {
	// Scale by 1000 and round first to shake out floating-point
	// artifacts (1.10 * 1000 = 1099.999...), then check the third
	// decimal place is zero.
	scaled := math.Round(f * 1000)
	if math.Mod(scaled, 10) != 0 {
		return 0, fmt.Errorf("prices must have at most 2 decimal places")
	}
	return int64(math.Round(f * 100)), nil
}

// CentsToDollars converts an int64 cents value to a float64 dollar amount.
func CentsToDollars(c int64) float64 {
	return float64(c) / 100.0
}
