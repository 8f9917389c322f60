package reserve

import (
	"math"

	"github.com/iwvelando/repair-reserve/pkg/constants"
	"github.com/iwvelando/repair-reserve/pkg/mathutil"
)

// RangeSide names the boundary of the year range being edited.
type RangeSide string

const (
	// RangeStart is the first year of the accumulation period.
	RangeStart RangeSide = "start"
	// RangeEnd is the last year of the accumulation period.
	RangeEnd RangeSide = "end"
)

// ApplyDurationEdit sets the duration to months exactly. When a start year is
// set, the end year follows from the rounded year count so that a later switch
// to range entry shows a plausible range.
//
// The sync is one way and lossy: 65 months from 2025 gives 2025..2029, which
// maps back to 60 months, not 65.
func ApplyDurationEdit(in Inputs, months int) Inputs {
	in.DurationMonths = months
	if in.StartYear != 0 {
		in.EndYear = in.StartYear + mathutil.RoundedYears(months) - 1
	}
	return in
}

// ApplyRangeEdit moves one boundary of the year range and recomputes the
// duration from the resulting inclusive range. A boundary dragged past the
// other one pulls it along, so the range collapses to a single year instead of
// being rejected. An unset opposite boundary takes the edited year.
//
// A blank (zero) year clears that boundary and the duration, leaving the
// inputs not computable until a year is entered again.
func ApplyRangeEdit(in Inputs, side RangeSide, year int) Inputs {
	if year <= 0 {
		switch side {
		case RangeStart:
			in.StartYear = 0
		case RangeEnd:
			in.EndYear = 0
		default:
			return in
		}
		in.DurationMonths = 0
		return in
	}

	switch side {
	case RangeStart:
		in.StartYear = year
		if in.EndYear == 0 || year > in.EndYear {
			in.EndYear = year
		}
	case RangeEnd:
		in.EndYear = year
		if in.StartYear == 0 || year < in.StartYear {
			in.StartYear = year
		}
	default:
		return in
	}

	in.DurationMonths = (in.EndYear - in.StartYear + 1) * constants.MonthsPerYear
	return in
}

// ApplyModeSwitch changes the cost-basis mode. Values entered under the other
// mode are kept so switching back restores them.
func ApplyModeSwitch(in Inputs, mode Mode) Inputs {
	in.Mode = mode
	return in
}

// ApplyPeriodInputModeSwitch changes which period representation is edited.
// Neither the duration nor the range is recomputed.
func ApplyPeriodInputModeSwitch(in Inputs, mode PeriodInputMode) Inputs {
	in.PeriodInputMode = mode
	return in
}

// Reconcile restores a consistent period for inputs that arrive whole rather
// than through an edit. Negative or out of range years and months are cleared.
// An inverted range is repaired through the active period representation:
// range entry keeps the start year and collapses the range onto it, duration
// entry keeps the duration and moves the end year.
func Reconcile(in Inputs) Inputs {
	in.StartYear = clampWhole(in.StartYear)
	in.EndYear = clampWhole(in.EndYear)
	in.DurationMonths = clampWhole(in.DurationMonths)

	if !in.HasRange() || in.StartYear <= in.EndYear {
		return in
	}
	if in.PeriodInputMode == PeriodRange {
		return ApplyRangeEdit(in, RangeStart, in.StartYear)
	}
	return ApplyDurationEdit(in, in.DurationMonths)
}

func clampWhole(v int) int {
	if v < 0 || v > math.MaxInt32 {
		return 0
	}
	return v
}
