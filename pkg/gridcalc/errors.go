package gridcalc

import (
	"errors"

	"nickandperla.net/gridcalc/internal/eval"
	"nickandperla.net/gridcalc/internal/grid"
	"nickandperla.net/gridcalc/internal/scanner"
)

// Error kinds returned by evaluation. Match them with errors.As.
type (
	CircularReferenceError   = eval.CircularReferenceError
	MalformedExpressionError = eval.MalformedExpressionError
	OutOfBoundsError         = grid.OutOfBoundsError
	InvalidTokenError        = scanner.InvalidTokenError
)

var (
	ErrMissingOperand = eval.ErrMissingOperand
	ErrExtraOperand   = eval.ErrExtraOperand
	ErrNotRectangular = grid.ErrNotRectangular

	// ErrNoStore is returned by Save, Load and History without a store.
	ErrNoStore = errors.New("no store configured")
	// ErrNotFound is returned by Load for a name with no stored versions.
	ErrNotFound = errors.New("sheet not found")
)
