// Package reserve defines the data structures of a repair reserve calculation
// and includes the functions that keep period inputs consistent and derive the
// monthly household contribution from them.
package reserve

import (
	"github.com/iwvelando/repair-reserve/pkg/constants"
)

// Mode selects which cost-basis fields are authoritative.
type Mode string

const (
	// ModeRate derives the period target from a total repair cost and an accumulation rate.
	ModeRate Mode = "rate"
	// ModeAmount takes the period target as a fixed amount.
	ModeAmount Mode = "amount"
)

// Valid reports whether m is a known cost-basis mode.
func (m Mode) Valid() bool {
	return m == ModeRate || m == ModeAmount
}

// PeriodInputMode selects which representation of the accumulation period is edited.
type PeriodInputMode string

const (
	// PeriodDuration edits the period as a number of months.
	PeriodDuration PeriodInputMode = "duration"
	// PeriodRange edits the period as an inclusive start/end year range.
	PeriodRange PeriodInputMode = "range"
)

// Valid reports whether m is a known period input mode.
func (m PeriodInputMode) Valid() bool {
	return m == PeriodDuration || m == PeriodRange
}

// Inputs is the single source of truth for a calculation. It is a value type:
// every edit produces a new Inputs rather than changing one in place, so two
// snapshots can be compared with ==.
//
// StartYear and EndYear use 0 for "unset".
type Inputs struct {
	Mode             Mode            `json:"mode" yaml:"mode" mapstructure:"mode"`
	PeriodInputMode  PeriodInputMode `json:"periodInputMode" yaml:"periodInputMode" mapstructure:"periodInputMode"`
	PeriodAmount     float64         `json:"periodAmount" yaml:"periodAmount" mapstructure:"periodAmount"`
	TotalRepairCost  float64         `json:"totalRepairCost" yaml:"totalRepairCost" mapstructure:"totalRepairCost"`
	AccumulationRate float64         `json:"accumulationRate" yaml:"accumulationRate" mapstructure:"accumulationRate"`
	DurationMonths   int             `json:"durationMonths" yaml:"durationMonths" mapstructure:"durationMonths"`
	StartYear        int             `json:"startYear" yaml:"startYear" mapstructure:"startYear"`
	EndYear          int             `json:"endYear" yaml:"endYear" mapstructure:"endYear"`
	TotalComplexArea float64         `json:"totalComplexArea" yaml:"totalComplexArea" mapstructure:"totalComplexArea"`
	HouseholdArea    float64         `json:"householdArea" yaml:"householdArea" mapstructure:"householdArea"`
}

// DefaultInputs returns the inputs a new session starts with: rate mode,
// duration entry, 60 months and a matching five year range beginning at startYear.
func DefaultInputs(startYear int) Inputs {
	return Inputs{
		Mode:            ModeRate,
		PeriodInputMode: PeriodDuration,
		DurationMonths:  constants.DefaultDurationMonths,
		StartYear:       startYear,
		EndYear:         startYear + constants.DefaultRangeYears - 1,
	}
}

// HasRange reports whether both year boundaries are set.
func (in Inputs) HasRange() bool {
	return in.StartYear != 0 && in.EndYear != 0
}

// RangeMonths is the month count implied by the year range, counting both
// boundary years in full. It returns 0 when the range is not set.
func (in Inputs) RangeMonths() int {
	if !in.HasRange() {
		return 0
	}
	return (in.EndYear - in.StartYear + 1) * constants.MonthsPerYear
}

// Normalize fills unknown modes with their defaults. Numeric fields are left
// untouched; the engine decides whether they are usable.
func (in Inputs) Normalize() Inputs {
	if !in.Mode.Valid() {
		in.Mode = ModeRate
	}
	if !in.PeriodInputMode.Valid() {
		in.PeriodInputMode = PeriodDuration
	}
	return in
}
