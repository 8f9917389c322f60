package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the calculation.
const SheetName = "Repair Reserve"

// Built-in number format 4 is "#,##0.00".
const thousandsNumFmt = 4

// Workbook builds a spreadsheet for report. The caller must Close it.
func Workbook(report Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	numeric, err := f.NewStyle(&excelize.Style{NumFmt: thousandsNumFmt})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := fillSheet(f, report, header, numeric); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func fillSheet(f *excelize.File, report Report, header, numeric int) error {
	if err := f.SetColWidth(SheetName, "A", "A", 26); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "C", 22); err != nil {
		return err
	}

	row := 1
	if err := setRow(f, row, "Field", "Value", "Display"); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "C1", header); err != nil {
		return err
	}
	row++

	rows := append(inputRows(report.Inputs), resultRows(report.Result)...)
	for _, r := range rows {
		if err := setRow(f, row, r.label, r.value, r.text); err != nil {
			return err
		}
		if _, ok := r.value.(float64); ok {
			cell := fmt.Sprintf("B%d", row)
			if err := f.SetCellStyle(SheetName, cell, cell, numeric); err != nil {
				return err
			}
		}
		row++
	}

	if report.Result == nil {
		if err := setRow(f, row, "Result", notComputable(report.Missing), ""); err != nil {
			return err
		}
		row++
	}

	for _, warning := range report.Warnings {
		if err := setRow(f, row, "Warning", warning, ""); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(f *excelize.File, row int, label string, value interface{}, display string) error {
	if err := f.SetCellValue(SheetName, fmt.Sprintf("A%d", row), label); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, fmt.Sprintf("B%d", row), value); err != nil {
		return err
	}
	return f.SetCellValue(SheetName, fmt.Sprintf("C%d", row), display)
}

// XLSX writes report as a spreadsheet to w.
func XLSX(w io.Writer, report Report) error {
	f, err := Workbook(report)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes report as a spreadsheet to path.
func SaveXLSX(path string, report Report) error {
	f, err := Workbook(report)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
