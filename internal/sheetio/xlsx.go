package sheetio

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"nickandperla.net/gridcalc/internal/cell"
)

// DefaultSheet is the worksheet name used when writing a new workbook.
const DefaultSheet = "Sheet1"

// ReadXLSX returns the raw text of one worksheet. An empty sheet name selects
// the first sheet. Short rows are padded with empty cells so the result is
// rectangular.
func ReadXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: workbook has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, width)
		copy(out[i], row)
	}
	return out, nil
}

// WriteXLSX writes rows to a new workbook at path. Cells that are plain
// numbers are stored as numbers, everything else as text.
func WriteXLSX(path string, rows [][]string, sheet string) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return err
		}
	}

	for i, row := range rows {
		for j, text := range row {
			addr, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			var v any = text
			if n, ok := cell.ParseNumber(text); ok && !math.IsInf(n, 0) {
				v = n
			}
			if err := f.SetCellValue(sheet, addr, v); err != nil {
				return fmt.Errorf("%s %s: %w", sheet, addr, err)
			}
		}
	}
	return f.SaveAs(path)
}
