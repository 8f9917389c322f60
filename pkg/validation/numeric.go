package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/repair-reserve/pkg/mathutil"
)

var unitReplacer = strings.NewReplacer(
	",", "",
	"_", "",
	" ", "",
	"원", "",
	"㎡", "",
	"m²", "",
	"m2", "",
	"%", "",
)

// ParseAmount turns user-entered text into a non-negative number. Empty,
// unparseable, negative and non-finite input all become 0.
func ParseAmount(text string) float64 {
	cleaned := unitReplacer.Replace(strings.TrimSpace(text))
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return NonNegative(v)
}

// ParseYear turns user-entered text into a year. Anything that is not a
// positive whole number becomes 0, meaning unset.
func ParseYear(text string) int {
	return WholeNumber(ParseAmount(text))
}

// WholeNumber converts v to an int when it is a positive whole number no
// larger than math.MaxInt32. Fractions, non-finite and out of range values
// become 0.
func WholeNumber(v float64) int {
	if !mathutil.IsFinite(v) || v < 1 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0
	}
	return int(v)
}

// ParseMonths turns user-entered text into a whole month count, 0 when unusable.
func ParseMonths(text string) int {
	return ParseYear(text)
}

// NonNegative maps NaN, infinities and negative values to 0.
func NonNegative(v float64) float64 {
	if !mathutil.IsFinite(v) || v < 0 {
		return 0
	}
	return v
}
