package reserve

import (
	"math"
	"testing"

	"github.com/iwvelando/repair-reserve/pkg/constants"
	"github.com/iwvelando/repair-reserve/pkg/mathutil"
)

func rateInputs() Inputs {
	return Inputs{
		Mode:             ModeRate,
		PeriodInputMode:  PeriodDuration,
		TotalRepairCost:  10_000_000_000,
		AccumulationRate: 20,
		DurationMonths:   60,
		StartYear:        2025,
		EndYear:          2029,
		TotalComplexArea: 150_000,
		HouseholdArea:    84.9,
	}
}

func amountInputs() Inputs {
	in := rateInputs()
	in.Mode = ModeAmount
	in.PeriodAmount = 2_000_000_000
	return in
}

func TestCalculateRateMode(t *testing.T) {
	result, ok := Calculate(rateInputs())
	if !ok {
		t.Fatal("expected a result for complete rate inputs")
	}

	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"period target amount", result.PeriodTargetAmount, 2_000_000_000},
		{"monthly total target", result.MonthlyTotalTarget, 33_333_333.33},
		{"monthly rate per sqm", result.MonthlyRatePerSqm, 222.22},
		{"household monthly fee", result.HouseholdMonthlyFee, 18_866.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !mathutil.WithinTolerance(tt.got, tt.expected, constants.FloatTolerance) {
				t.Errorf("%s = %v, expected %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestCalculateAmountModeMatchesRateMode(t *testing.T) {
	rateResult, ok := Calculate(rateInputs())
	if !ok {
		t.Fatal("expected a result for rate inputs")
	}
	amountResult, ok := Calculate(amountInputs())
	if !ok {
		t.Fatal("expected a result for amount inputs")
	}

	if rateResult != amountResult {
		t.Errorf("expected identical results, rate=%+v amount=%+v", rateResult, amountResult)
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	inputs := []Inputs{rateInputs(), amountInputs()}
	odd := rateInputs()
	odd.DurationMonths = 7
	odd.HouseholdArea = 59.97
	odd.AccumulationRate = 13.3
	inputs = append(inputs, odd)

	for _, in := range inputs {
		first, ok1 := Calculate(in)
		second, ok2 := Calculate(in)
		if ok1 != ok2 {
			t.Fatalf("computability changed between runs for %+v", in)
		}
		if math.Float64bits(first.HouseholdMonthlyFee) != math.Float64bits(second.HouseholdMonthlyFee) ||
			math.Float64bits(first.MonthlyRatePerSqm) != math.Float64bits(second.MonthlyRatePerSqm) ||
			math.Float64bits(first.MonthlyTotalTarget) != math.Float64bits(second.MonthlyTotalTarget) ||
			math.Float64bits(first.PeriodTargetAmount) != math.Float64bits(second.PeriodTargetAmount) {
			t.Errorf("results differ between runs: %+v vs %+v", first, second)
		}
	}
}

func TestCalculateInsufficientInputs(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(in Inputs) Inputs
		expected Insufficiency
	}{
		{"zero duration", func(in Inputs) Inputs { in.DurationMonths = 0; return in }, MissingDuration},
		{"negative duration", func(in Inputs) Inputs { in.DurationMonths = -12; return in }, MissingDuration},
		{"zero complex area", func(in Inputs) Inputs { in.TotalComplexArea = 0; return in }, MissingTotalComplexArea},
		{"zero household area", func(in Inputs) Inputs { in.HouseholdArea = 0; return in }, MissingHouseholdArea},
		{"NaN household area", func(in Inputs) Inputs { in.HouseholdArea = math.NaN(); return in }, MissingHouseholdArea},
		{"zero repair cost", func(in Inputs) Inputs { in.TotalRepairCost = 0; return in }, MissingTotalRepairCost},
		{"zero accumulation rate", func(in Inputs) Inputs { in.AccumulationRate = 0; return in }, MissingAccumulationRate},
		{"amount mode without amount", func(in Inputs) Inputs {
			in.Mode = ModeAmount
			in.PeriodAmount = 0
			return in
		}, MissingPeriodAmount},
		{"duration checked before areas", func(in Inputs) Inputs {
			in.DurationMonths = 0
			in.TotalComplexArea = 0
			in.HouseholdArea = 0
			return in
		}, MissingDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.mutate(rateInputs())
			if got := Check(in); got != tt.expected {
				t.Errorf("Check() = %q, expected %q", got, tt.expected)
			}
			result, ok := Calculate(in)
			if ok {
				t.Errorf("expected no result, got %+v", result)
			}
			if result != (Result{}) {
				t.Errorf("expected zero-value result when not computable, got %+v", result)
			}
		})
	}
}

func TestCalculateIgnoresInactiveModeFields(t *testing.T) {
	// Rate mode does not look at the period amount and vice versa.
	in := rateInputs()
	in.PeriodAmount = 0
	if _, ok := Calculate(in); !ok {
		t.Error("rate mode should not require a period amount")
	}

	in = amountInputs()
	in.TotalRepairCost = 0
	in.AccumulationRate = 0
	if _, ok := Calculate(in); !ok {
		t.Error("amount mode should not require a repair cost or rate")
	}
}

func TestCalculateRateAboveHundredPercent(t *testing.T) {
	in := rateInputs()
	in.AccumulationRate = 150
	result, ok := Calculate(in)
	if !ok {
		t.Fatal("expected a result for a rate above 100%")
	}
	if result.PeriodTargetAmount != 15_000_000_000 {
		t.Errorf("PeriodTargetAmount = %v, expected 15000000000", result.PeriodTargetAmount)
	}
}
