package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/repair-reserve/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Pretty writes a human-readable rather than machine-readable table.
func Pretty(w io.Writer, report Report) error {
	p := message.NewPrinter(language.Korean)

	lines := []string{"--- Repair reserve calculation ---"}
	for _, r := range inputRows(report.Inputs) {
		lines = append(lines, p.Sprintf("%-22s | %s", r.label, r.text))
	}
	lines = append(lines, "______                 | ______")

	results := resultRows(report.Result)
	if len(results) == 0 {
		lines = append(lines, p.Sprintf("%-22s | %s", "Result", notComputable(report.Missing)))
	}
	for _, r := range results {
		lines = append(lines, p.Sprintf("%-22s | %s", r.label, r.text))
	}

	for _, warning := range report.Warnings {
		lines = append(lines, "Warning: "+warning)
	}
	if report.Advice != "" {
		lines = append(lines, "", report.Advice)
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// CSV writes "field","value" rows with unformatted numbers.
func CSV(w io.Writer, report Report) error {
	cw := csv.NewWriter(w)
	records := [][]string{{"field", "value"}}

	for _, r := range append(inputRows(report.Inputs), resultRows(report.Result)...) {
		records = append(records, []string{r.label, csvValue(r.value)})
	}
	if report.Result == nil {
		records = append(records, []string{"Result", notComputable(report.Missing)})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func csvValue(v interface{}) string {
	switch val := v.(type) {
	case float64:
		return format.Fixed2(val)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprint(val)
	}
}

// JSON writes the report as indented JSON. An absent result is encoded as null.
func JSON(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
