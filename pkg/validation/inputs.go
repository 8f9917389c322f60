package validation

import (
	"fmt"

	"github.com/iwvelando/repair-reserve/internal/reserve"
	"github.com/iwvelando/repair-reserve/pkg/constants"
)

// ValidateInputs returns advisory warnings about inputs that are computable
// but probably not what the user meant. Warnings never block a calculation.
func ValidateInputs(in reserve.Inputs) []string {
	var warnings []string

	if in.HouseholdArea > 0 && in.TotalComplexArea > 0 && in.HouseholdArea > in.TotalComplexArea {
		warnings = append(warnings, fmt.Sprintf("Household area (%.2f) is larger than the total complex area (%.2f)",
			in.HouseholdArea, in.TotalComplexArea))
	}

	if in.Mode == reserve.ModeRate && in.AccumulationRate > constants.PercentageMultiplier {
		warnings = append(warnings, fmt.Sprintf("Accumulation rate %.2f%% exceeds 100%% of the total repair cost",
			in.AccumulationRate))
	}

	if in.PeriodInputMode == reserve.PeriodRange && in.HasRange() && in.RangeMonths() != in.DurationMonths && in.DurationMonths > 0 {
		warnings = append(warnings, fmt.Sprintf("Year range %d-%d covers %d months but the duration is %d months; the duration is used",
			in.StartYear, in.EndYear, in.RangeMonths(), in.DurationMonths))
	}

	return warnings
}
