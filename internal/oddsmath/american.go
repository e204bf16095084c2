// Package oddsmath provides conversions between American odds and
// implied probabilities.
package oddsmath

import (
	"fmt"
	"math"
)

// AmericanToImpliedProbability converts American odds to the bookmaker's
// implied win probability (vig included).
func AmericanToImpliedProbability(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}
	if american > 0 {
		return 100.0 / (float64(american) + 100.0), nil
	}
	a := math.Abs(float64(american))
	return a / (a + 100.0), nil
}

// ProfitMultiplier returns the profit per unit staked for winning American
// odds: +150 pays 1.5 units per unit, -110 pays 0.909 units per unit.
func ProfitMultiplier(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}
	if american > 0 {
		return float64(american) / 100.0, nil
	}
	return 100.0 / math.Abs(float64(american)), nil
}
