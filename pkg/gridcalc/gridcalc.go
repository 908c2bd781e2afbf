// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package gridcalc provides the public API for evaluating grids of
// arithmetic cell expressions.
package gridcalc

import (
	"fmt"
	"io"
	"log"

	"nickandperla.net/gridcalc/internal/cell"
	"nickandperla.net/gridcalc/internal/eval"
	"nickandperla.net/gridcalc/internal/grid"
	"nickandperla.net/gridcalc/internal/logutil"
	"nickandperla.net/gridcalc/internal/sheetio"
)

// DefaultPrecision is the number of decimals kept when writing output.
const DefaultPrecision = 2

// Sheet is a grid of raw cell text together with its evaluated state.
type Sheet struct {
	raw       [][]string
	grid      *grid.Grid
	evaluator *eval.Evaluator
	store     Store
	logger    *log.Logger
	traversal Traversal
	precision int
	io        sheetio.Options
	optErr    error // first error from an option
}

func newSheet(opts []Option) (*Sheet, error) {
	s := &Sheet{
		logger:    logutil.Discard,
		traversal: eval.RowMajor,
		precision: DefaultPrecision,
	}
	for _, opt := range opts {
		opt(s)
		if s.optErr != nil {
			s.Close()
			return nil, s.optErr
		}
	}
	return s, nil
}

// New creates a sheet from rows of raw cell text. The sheet is not evaluated
// until Evaluate is called.
func New(raw [][]string, opts ...Option) (*Sheet, error) {
	s, err := newSheet(opts)
	if err != nil {
		return nil, err
	}
	if err := s.reset(raw); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// FromFile reads a sheet from a delimited text or .xlsx file.
func FromFile(path string, opts ...Option) (*Sheet, error) {
	s, err := newSheet(opts)
	if err != nil {
		return nil, err
	}
	raw, err := sheetio.ReadFile(path, s.io)
	if err == nil {
		err = s.reset(raw)
	}
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Load creates a sheet from the latest version stored under name and
// evaluates it. The store comes from opts. If evaluation fails the sheet is
// still returned alongside the error.
func Load(name string, opts ...Option) (*Sheet, error) {
	s, err := newSheet(opts)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, ErrNoStore
	}
	snap, err := s.store.Get(name)
	if err == nil && snap == nil {
		err = fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err == nil {
		err = s.reset(snap.Raw)
	}
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, s.Evaluate()
}

// reset rebuilds the grid from raw, discarding all evaluated state.
func (s *Sheet) reset(raw [][]string) error {
	g, err := grid.New(raw)
	if err != nil {
		return err
	}
	s.raw = copyRows(raw)
	s.grid = g
	s.evaluator = eval.New(g, eval.WithLogger(s.logger), eval.WithTraversal(s.traversal))
	return nil
}

// Evaluate computes every cell. On error, cells resolved before the failure
// keep their values and the rest keep their raw text.
func (s *Sheet) Evaluate() error {
	return s.evaluator.EvaluateAll()
}

// Dimensions returns the number of rows and columns.
func (s *Sheet) Dimensions() (rows, cols int) {
	return s.grid.Rows(), s.grid.Cols()
}

// Raw returns a copy of the raw cell text.
func (s *Sheet) Raw() [][]string {
	return copyRows(s.raw)
}

// Values returns the current text of every cell: decimal text for evaluated
// cells, their raw text for everything else.
func (s *Sheet) Values() [][]string {
	return s.grid.Strings()
}

// Rounded returns Values with numbers rounded to the sheet's precision.
func (s *Sheet) Rounded() [][]string {
	return sheetio.Round(s.Values(), s.precision)
}

// Cell returns the current text of the cell named by ref, such as "B2".
func (s *Sheet) Cell(ref string) (string, error) {
	a, err := s.address(ref)
	if err != nil {
		return "", err
	}
	c, err := s.grid.Get(a)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// SetCell replaces the raw text of the cell named by ref and re-evaluates
// the whole sheet from its raw text.
func (s *Sheet) SetCell(ref, text string) error {
	a, err := s.address(ref)
	if err != nil {
		return err
	}
	raw := copyRows(s.raw)
	raw[a.Row][a.Col] = text
	if err := s.reset(raw); err != nil {
		return err
	}
	s.logger.Printf("%s := %s", a, text)
	return s.Evaluate()
}

// Expression evaluates text against the sheet without storing it.
func (s *Sheet) Expression(text string) (float64, error) {
	return s.evaluator.Expression(text)
}

func (s *Sheet) address(ref string) (cell.Address, error) {
	a, err := cell.ParseRef(ref)
	if err != nil || !s.grid.Contains(a) {
		return a, &grid.OutOfBoundsError{Cell: a, Ref: ref, Rows: s.grid.Rows(), Cols: s.grid.Cols()}
	}
	return a, nil
}

// WriteFile writes the rounded values to path as delimited text or .xlsx.
func (s *Sheet) WriteFile(path string) error {
	return sheetio.WriteFile(path, s.Rounded(), s.io)
}

// Write writes the rounded values to w as delimited text.
func (s *Sheet) Write(w io.Writer) error {
	return WriteCSV(w, s.Rounded(), s.io.Delimiter)
}

// Save stores the raw text and current values under name as a new version.
func (s *Sheet) Save(name string) error {
	if s.store == nil {
		return ErrNoStore
	}
	return s.store.Put(name, &Snapshot{Raw: s.Raw(), Values: s.Values()})
}

// History returns up to limit stored versions of name, newest first.
// A limit of zero returns all of them.
func (s *Sheet) History(name string, limit int) ([]VersionEntry, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.GetHistory(name, limit)
}

// Close releases resources.
func (s *Sheet) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// WriteCSV writes rows to w separated by delim. A zero delim means ','.
func WriteCSV(w io.Writer, rows [][]string, delim rune) error {
	if delim == 0 {
		delim = ','
	}
	return sheetio.WriteCSV(w, rows, delim)
}

// Round returns a copy of rows with numbers rounded half away from zero to
// precision decimals.
func Round(rows [][]string, precision int) [][]string {
	return sheetio.Round(rows, precision)
}

// FormatNumber renders v the way evaluated cells are rendered.
func FormatNumber(v float64) string {
	return cell.FormatNumber(v)
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
