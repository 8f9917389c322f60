package reserve

import (
	"github.com/iwvelando/repair-reserve/pkg/mathutil"
)

// Result holds the derived quantities for one set of inputs. Values are not
// rounded; rounding belongs to presentation.
type Result struct {
	PeriodTargetAmount  float64 `json:"periodTargetAmount" yaml:"periodTargetAmount"`
	MonthlyTotalTarget  float64 `json:"monthlyTotalTarget" yaml:"monthlyTotalTarget"`
	MonthlyRatePerSqm   float64 `json:"monthlyRatePerSqm" yaml:"monthlyRatePerSqm"`
	HouseholdMonthlyFee float64 `json:"householdMonthlyFee" yaml:"householdMonthlyFee"`
}

// Insufficiency names the first precondition a set of inputs fails.
type Insufficiency string

const (
	Sufficient              Insufficiency = ""
	MissingDuration         Insufficiency = "durationMonths"
	MissingTotalComplexArea Insufficiency = "totalComplexArea"
	MissingHouseholdArea    Insufficiency = "householdArea"
	MissingTotalRepairCost  Insufficiency = "totalRepairCost"
	MissingAccumulationRate Insufficiency = "accumulationRate"
	MissingPeriodAmount     Insufficiency = "periodAmount"
)

// Check returns the first failed precondition in evaluation order, or
// Sufficient when the inputs can be computed.
func Check(in Inputs) Insufficiency {
	if in.DurationMonths <= 0 {
		return MissingDuration
	}
	if !(in.TotalComplexArea > 0) {
		return MissingTotalComplexArea
	}
	if !(in.HouseholdArea > 0) {
		return MissingHouseholdArea
	}
	if in.Mode == ModeAmount {
		if !(in.PeriodAmount > 0) {
			return MissingPeriodAmount
		}
		return Sufficient
	}
	if !(in.TotalRepairCost > 0) {
		return MissingTotalRepairCost
	}
	if !(in.AccumulationRate > 0) {
		return MissingAccumulationRate
	}
	return Sufficient
}

// Calculate derives the period target, the monthly total, the monthly rate per
// square meter and the household's monthly fee. The boolean is false when any
// precondition fails; no partial result is ever returned.
func Calculate(in Inputs) (Result, bool) {
	if Check(in) != Sufficient {
		return Result{}, false
	}

	var target float64
	if in.Mode == ModeAmount {
		target = in.PeriodAmount
	} else {
		target = mathutil.ApplyPercentage(in.TotalRepairCost, in.AccumulationRate)
	}

	monthly := target / float64(in.DurationMonths)
	perSqm := monthly / in.TotalComplexArea

	return Result{
		PeriodTargetAmount:  target,
		MonthlyTotalTarget:  monthly,
		MonthlyRatePerSqm:   perSqm,
		HouseholdMonthlyFee: perSqm * in.HouseholdArea,
	}, true
}
