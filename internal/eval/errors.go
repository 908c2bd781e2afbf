package eval

import (
	"errors"
	"fmt"

	"nickandperla.net/gridcalc/internal/cell"
)

// Stack invariant violations, wrapped in MalformedExpressionError.
var (
	ErrMissingOperand = errors.New("operator is missing an operand")
	ErrExtraOperand   = errors.New("operands are not joined by an operator")
)

// noCell marks errors raised for a free-standing expression.
var noCell = cell.Address{Row: -1, Col: -1}

// CircularReferenceError is returned when a cell's evaluation is re-entered
// while still in progress.
type CircularReferenceError struct {
	Cell cell.Address
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("circular reference at %s (row %d, column %d)", e.Cell, e.Cell.Row, e.Cell.Col)
}

// MalformedExpressionError is returned when a cell's text is not a valid expression.
type MalformedExpressionError struct {
	Cell cell.Address
	Text string
	Err  error
}

func (e *MalformedExpressionError) Error() string {
	if e.Cell == noCell {
		return fmt.Sprintf("malformed expression %q: %v", e.Text, e.Err)
	}
	return fmt.Sprintf("cell %s: malformed expression %q: %v", e.Cell, e.Text, e.Err)
}

func (e *MalformedExpressionError) Unwrap() error { return e.Err }
