package sheetio

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"nickandperla.net/gridcalc/internal/cell"
)

// Options controls how files are read and written.
type Options struct {
	// Delimiter separates fields in delimited text. Zero means ','.
	Delimiter rune
	// Sheet names the worksheet of an .xlsx file.
	Sheet string
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// IsWorkbook reports whether path names an .xlsx file.
func IsWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// ReadFile reads a grid from path, choosing the format by extension.
func ReadFile(path string, opts Options) ([][]string, error) {
	if IsWorkbook(path) {
		return ReadXLSX(path, opts.Sheet)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, opts.delimiter())
}

// WriteFile writes rows to path, choosing the format by extension.
func WriteFile(path string, rows [][]string, opts Options) error {
	if IsWorkbook(path) {
		return WriteXLSX(path, rows, opts.Sheet)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, rows, opts.delimiter()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Round returns a copy of rows with every numeric cell rounded half away
// from zero to precision decimals. Non-numeric text is copied unchanged.
// A negative precision leaves values as they are.
func Round(rows [][]string, precision int) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, text := range row {
			out[i][j] = roundText(text, precision)
		}
	}
	return out
}

func roundText(text string, precision int) string {
	if precision < 0 {
		return text
	}
	v, ok := parseValue(text)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return text
	}
	scale := math.Pow(10, float64(precision))
	r := math.Round(v*scale) / scale
	if math.IsInf(r, 0) || math.IsNaN(r) {
		// v*scale overflowed
		return text
	}
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return cell.FormatNumber(r)
}

func parseValue(text string) (float64, bool) {
	return cell.ParseNumber(text)
}
