// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package sheetio reads and writes grids as delimited text or .xlsx workbooks.
package sheetio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV reads one row per line, splitting fields on delim and trimming
// surrounding whitespace from each field. Every row must have the same
// number of fields as the first.
func ReadCSV(r io.Reader, delim rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read delimited text: %w", err)
	}
	for _, row := range rows {
		for j := range row {
			row[j] = strings.TrimSpace(row[j])
		}
	}
	return rows, nil
}

// WriteCSV writes rows separated by delim.
func WriteCSV(w io.Writer, rows [][]string, delim rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write delimited text: %w", err)
	}
	return nil
}
