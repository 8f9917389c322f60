// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/repair-reserve/pkg/constants"
)

// Round rounds a value to two decimals.
// Used for making logical comparisons and for prompt text, never for stored results.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// RoundedYears converts a month count to whole years using math.Round
// (half away from zero), never returning less than one.
func RoundedYears(months int) int {
	years := int(math.Round(float64(months) / constants.MonthsPerYear))
	if years < 1 {
		return 1
	}
	return years
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}
