// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/immo-invest/pkg/constants"
)

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Clamp limits val to the closed interval [lo, hi].
func Clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// SafePercent returns value as a percentage of total. A non-positive total
// yields 0 so ratios never surface NaN or Inf.
func SafePercent(value, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return Finite(value / total * constants.PercentageMultiplier)
}

// Finite replaces NaN and infinities with 0.
func Finite(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0
	}
	return val
}
