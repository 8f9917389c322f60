// Package output provides utilities for formatting and exporting calculation results.
package output

import (
	"fmt"

	"github.com/iwvelando/repair-reserve/internal/reserve"
	"github.com/iwvelando/repair-reserve/pkg/format"
)

// Report is one calculation as presented to a reader: the inputs, the result
// when there is one, and any advisory text gathered along the way.
type Report struct {
	Inputs   reserve.Inputs        `json:"inputs" yaml:"inputs"`
	Result   *reserve.Result       `json:"result" yaml:"result"`
	Missing  reserve.Insufficiency `json:"missing,omitempty" yaml:"missing,omitempty"`
	Warnings []string              `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Advice   string                `json:"advice,omitempty" yaml:"advice,omitempty"`
}

// NewReport computes the result for in and wraps both in a Report.
func NewReport(in reserve.Inputs, warnings []string) Report {
	report := Report{Inputs: in, Warnings: warnings}
	if res, ok := reserve.Calculate(in); ok {
		report.Result = &res
	} else {
		report.Missing = reserve.Check(in)
	}
	return report
}

type row struct {
	label string
	text  string
	value interface{}
}

// inputRows lists the inputs that matter for the selected modes.
func inputRows(in reserve.Inputs) []row {
	var rows []row
	if in.Mode == reserve.ModeAmount {
		rows = append(rows, row{"Period amount", format.Won(in.PeriodAmount), in.PeriodAmount})
	} else {
		rows = append(rows,
			row{"Total repair cost", format.Won(in.TotalRepairCost), in.TotalRepairCost},
			row{"Accumulation rate", format.Rate(in.AccumulationRate), in.AccumulationRate},
		)
	}
	rows = append(rows, row{"Duration", format.Months(in.DurationMonths), in.DurationMonths})
	if in.HasRange() {
		rows = append(rows, row{"Year range", fmt.Sprintf("%d-%d", in.StartYear, in.EndYear), fmt.Sprintf("%d-%d", in.StartYear, in.EndYear)})
	}
	rows = append(rows,
		row{"Total complex area", format.Area(in.TotalComplexArea), in.TotalComplexArea},
		row{"Household area", format.Area(in.HouseholdArea), in.HouseholdArea},
	)
	return rows
}

// resultRows lists the derived values, or nothing when there is no result.
func resultRows(res *reserve.Result) []row {
	if res == nil {
		return nil
	}
	return []row{
		{"Period target amount", format.Won(res.PeriodTargetAmount), res.PeriodTargetAmount},
		{"Monthly total target", format.Won(res.MonthlyTotalTarget), res.MonthlyTotalTarget},
		{"Monthly rate per sqm", format.PerSqm(res.MonthlyRatePerSqm), res.MonthlyRatePerSqm},
		{"Household monthly fee", format.Won(res.HouseholdMonthlyFee), res.HouseholdMonthlyFee},
	}
}

func notComputable(missing reserve.Insufficiency) string {
	if missing == reserve.Sufficient {
		return "not computable"
	}
	return fmt.Sprintf("not computable (missing %s)", missing)
}
