// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package grid implements the rectangular table of cells evaluated in place.
package grid

import (
	"errors"
	"fmt"

	"nickandperla.net/gridcalc/internal/cell"
)

// ErrNotRectangular is returned by New when rows differ in length.
var ErrNotRectangular = errors.New("grid rows have unequal lengths")

// OutOfBoundsError reports a coordinate outside the grid's fixed dimensions.
type OutOfBoundsError struct {
	Cell cell.Address
	Ref  string // reference text, when raised while resolving one
	Rows int
	Cols int
}

func (e *OutOfBoundsError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("reference %s is outside the %dx%d grid", e.Ref, e.Rows, e.Cols)
	}
	return fmt.Sprintf("cell %s (row %d, column %d) is outside the %dx%d grid",
		e.Cell, e.Cell.Row, e.Cell.Col, e.Rows, e.Cols)
}

// Grid is a fixed-size table of cells. It is not safe for concurrent use.
type Grid struct {
	rows  int
	cols  int
	cells [][]cell.Cell
}

// New builds a grid from raw cell text, classifying each cell with cell.Parse.
func New(raw [][]string) (*Grid, error) {
	g := &Grid{rows: len(raw)}
	if g.rows > 0 {
		g.cols = len(raw[0])
	}
	g.cells = make([][]cell.Cell, g.rows)
	for i, row := range raw {
		if len(row) != g.cols {
			return nil, fmt.Errorf("row %d has %d cells, expected %d: %w", i+1, len(row), g.cols, ErrNotRectangular)
		}
		g.cells[i] = make([]cell.Cell, g.cols)
		for j, text := range row {
			g.cells[i][j] = cell.Parse(text)
		}
	}
	return g, nil
}

// Rows returns the row count.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the column count.
func (g *Grid) Cols() int { return g.cols }

// Contains reports whether a lies inside the grid.
func (g *Grid) Contains(a cell.Address) bool {
	return a.Row >= 0 && a.Row < g.rows && a.Col >= 0 && a.Col < g.cols
}

func (g *Grid) check(a cell.Address) error {
	if !g.Contains(a) {
		return &OutOfBoundsError{Cell: a, Rows: g.rows, Cols: g.cols}
	}
	return nil
}

// Get returns the cell at a.
func (g *Grid) Get(a cell.Address) (cell.Cell, error) {
	if err := g.check(a); err != nil {
		return nil, err
	}
	return g.cells[a.Row][a.Col], nil
}

// Set replaces the cell at a.
func (g *Grid) Set(a cell.Address, c cell.Cell) error {
	if err := g.check(a); err != nil {
		return err
	}
	g.cells[a.Row][a.Col] = c
	return nil
}

// Text returns the current text of the cell at (row, col).
func (g *Grid) Text(row, col int) (string, error) {
	c, err := g.Get(cell.Address{Row: row, Col: col})
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// Strings returns the text of every cell, row by row.
func (g *Grid) Strings() [][]string {
	out := make([][]string, g.rows)
	for i, row := range g.cells {
		out[i] = make([]string, g.cols)
		for j, c := range row {
			out[i][j] = c.String()
		}
	}
	return out
}

// Clone creates a copy of the grid. Cells are values, so the copy is independent.
func (g *Grid) Clone() *Grid {
	clone := &Grid{rows: g.rows, cols: g.cols, cells: make([][]cell.Cell, g.rows)}
	for i, row := range g.cells {
		clone.cells[i] = append([]cell.Cell(nil), row...)
	}
	return clone
}
