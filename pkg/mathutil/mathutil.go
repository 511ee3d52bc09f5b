// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/strac/pkg/constants"
)

// Round rounds a value to one decimal, the precision STRAC values are shown at.
// Halves round away from zero.
func Round(val float64) float64 {
	return math.Round(val*constants.DisplayPrecision) / constants.DisplayPrecision
}

// SafeDiv divides num by den, returning 0 when den is zero.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Percentage returns value/total*100 and whether the result is defined.
func Percentage(value, total float64) (float64, bool) {
	if total == 0 {
		return 0, false
	}
	return value / total * constants.PercentageMultiplier, true
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Average returns the arithmetic mean of two values.
func Average(a, b float64) float64 {
	return (a + b) / 2
}
