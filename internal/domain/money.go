package domain

import "math"

// CentsOf converts a currency amount to whole cents. All monetary
// comparisons in the settlement rules go through cents so that float noise
// never decides a status transition.
func CentsOf(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// SameAmount reports cent-exact equality between two currency amounts.
func SameAmount(a, b float64) bool {
	return CentsOf(a) == CentsOf(b)
}

// RoundAmount normalizes an amount to two decimal places before persisting.
func RoundAmount(a float64) float64 {
	return math.Round(a*100) / 100
}
