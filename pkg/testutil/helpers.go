// Package testutil provides common utility functions for testing.
package testutil

import (
	"encoding/csv"
	"io"

	"github.com/iwvelando/repair-reserve/internal/reserve"
)

// SampleInputs returns a complete rate-mode calculation: a 10,000,000,000원
// repair plan, 20% accumulated over 60 months (2025-2029), a 150,000㎡
// complex and an 84.9㎡ household. The household fee is about 18,866.67원.
func SampleInputs() reserve.Inputs {
	return reserve.Inputs{
		Mode:             reserve.ModeRate,
		PeriodInputMode:  reserve.PeriodDuration,
		TotalRepairCost:  10_000_000_000,
		AccumulationRate: 20,
		DurationMonths:   60,
		StartYear:        2025,
		EndYear:          2029,
		TotalComplexArea: 150_000,
		HouseholdArea:    84.9,
	}
}

// SampleAmountInputs returns SampleInputs switched to amount mode with the
// period amount that produces the same result.
func SampleAmountInputs() reserve.Inputs {
	in := SampleInputs()
	in.Mode = reserve.ModeAmount
	in.PeriodAmount = 2_000_000_000
	return in
}

// CSVFields reads "field","value" CSV into a map, skipping the header row.
func CSVFields(r io.Reader) (map[string]string, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue
		}
		fields[rec[0]] = rec[1]
	}
	return fields, nil
}
