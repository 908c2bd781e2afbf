// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the grid evaluator.
package eval

import (
	"log"

	"nickandperla.net/gridcalc/internal/cell"
	"nickandperla.net/gridcalc/internal/grid"
	"nickandperla.net/gridcalc/internal/logutil"
	"nickandperla.net/gridcalc/internal/scanner"
	"nickandperla.net/gridcalc/internal/token"
)

// Evaluator computes every cell of a grid, writing results back in place.
type Evaluator struct {
	grid      *grid.Grid
	logger    *log.Logger
	traversal Traversal
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used to trace resolved cells.
func WithLogger(l *log.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTraversal sets the order in which EvaluateAll visits coordinates.
func WithTraversal(t Traversal) Option {
	return func(e *Evaluator) {
		if t != nil {
			e.traversal = t
		}
	}
}

// New creates a new Evaluator over g with the given options.
func New(g *grid.Grid, opts ...Option) *Evaluator {
	e := &Evaluator{
		grid:      g,
		logger:    logutil.Discard,
		traversal: RowMajor,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Grid returns the grid being evaluated.
func (e *Evaluator) Grid() *grid.Grid {
	return e.grid
}

// EvaluateAll evaluates every cell with one shared Visited set and stops at
// the first error. Cells resolved before the failure keep their values.
func (e *Evaluator) EvaluateAll() error {
	rows, cols := e.grid.Rows(), e.grid.Cols()
	if rows == 0 || cols == 0 {
		return nil
	}
	e.logger.Printf("evaluating %dx%d grid", rows, cols)

	visited := NewVisited(rows, cols)
	for _, a := range e.traversal(rows, cols) {
		if _, err := e.EvaluateCell(a, visited); err != nil {
			e.logger.Printf("pass aborted: %v", err)
			return err
		}
	}
	e.logger.Printf("evaluated %d cells", rows*cols)
	return nil
}

// EvaluateCell returns the value of the cell at a, evaluating it first if it
// is still unevaluated.
func (e *Evaluator) EvaluateCell(a cell.Address, visited *Visited) (float64, error) {
	c, err := e.grid.Get(a)
	if err != nil {
		return 0, err
	}
	// Literals and cells resolved earlier in this pass
	if v, ok := c.Number(); ok {
		return v, nil
	}

	if visited.Marked(a) {
		return 0, &CircularReferenceError{Cell: a}
	}
	// Never unmarked: a cell is evaluated at most once per pass.
	visited.Mark(a)

	text := c.String()
	v, err := e.evalText(a, text, visited)
	if err != nil {
		return 0, err
	}
	if err := e.grid.Set(a, cell.Resolved{Value: v}); err != nil {
		return 0, err
	}
	e.logger.Printf("%s = %s -> %s", a, text, cell.FormatNumber(v))
	return v, nil
}

// Resolve decodes a reference such as "C2" and evaluates the cell it names.
func (e *Evaluator) Resolve(ref string, visited *Visited) (float64, error) {
	a, err := cell.ParseRef(ref)
	if err != nil || !e.grid.Contains(a) {
		return 0, &grid.OutOfBoundsError{Cell: a, Ref: ref, Rows: e.grid.Rows(), Cols: e.grid.Cols()}
	}
	return e.EvaluateCell(a, visited)
}

// Expression evaluates text that is not stored in the grid. Cells it
// references are resolved and memoized as usual.
func (e *Evaluator) Expression(text string) (float64, error) {
	if v, ok := cell.ParseNumber(text); ok {
		return v, nil
	}
	return e.evalText(noCell, text, NewVisited(e.grid.Rows(), e.grid.Cols()))
}

// evalText tokenizes text and evaluates it with a value stack and an operator
// stack. Operators of equal or higher precedence on the stack are applied
// before a new operator is pushed, which makes both tiers left-associative.
func (e *Evaluator) evalText(at cell.Address, text string, visited *Visited) (float64, error) {
	items, err := scanner.Tokenize(text)
	if err != nil {
		return 0, &MalformedExpressionError{Cell: at, Text: text, Err: err}
	}

	var (
		values []float64
		ops    []token.Operator
	)

	apply := func() error {
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if len(values) < 2 {
			return &MalformedExpressionError{Cell: at, Text: text, Err: ErrMissingOperand}
		}
		// operand2 is on top
		y := values[len(values)-1]
		x := values[len(values)-2]
		values = append(values[:len(values)-2], op.Apply(x, y))
		return nil
	}

	for _, item := range items {
		switch item.Token {
		case token.NUMBER:
			values = append(values, item.Number)

		case token.REFERENCE:
			v, err := e.Resolve(item.Ref, visited)
			if err != nil {
				return 0, err
			}
			values = append(values, v)

		case token.OPERATOR:
			for len(ops) > 0 && ops[len(ops)-1].Precedence() >= item.Op.Precedence() {
				if err := apply(); err != nil {
					return 0, err
				}
			}
			ops = append(ops, item.Op)
		}
	}

	for len(ops) > 0 {
		if err := apply(); err != nil {
			return 0, err
		}
	}

	if len(values) != 1 {
		return 0, &MalformedExpressionError{Cell: at, Text: text, Err: ErrExtraOperand}
	}
	return values[0], nil
}
