// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines cell expression token types and the arithmetic operators.
package token

// Token represents a cell expression token type.
type Token int

const (
	EOF Token = iota
	TEXT      // operand text not yet classified
	NUMBER    // signed decimal literal: 12, -3.5
	REFERENCE // column letter + 1-based row: C2
	OPERATOR  // one of + - * /
)

// Operator runes.
const (
	RunePlus   = '+'
	RuneMinus  = '-'
	RuneTimes  = '*'
	RuneDivide = '/'
)

// IsOperator returns true if the rune is one of the four binary operators.
func IsOperator(r rune) bool {
	switch r {
	case RunePlus, RuneMinus, RuneTimes, RuneDivide:
		return true
	}
	return false
}

// IsSign returns true if the rune can prefix an operand as a unary sign.
func IsSign(r rune) bool {
	return r == RunePlus || r == RuneMinus
}

// String returns the string representation of a token.
func (t Token) String() string {
	switch t {
	case EOF:
		return "EOF"
	case TEXT:
		return "TEXT"
	case NUMBER:
		return "NUMBER"
	case REFERENCE:
		return "REFERENCE"
	case OPERATOR:
		return "OPERATOR"
	default:
		return "UNKNOWN"
	}
}

// Precedence is an operator's binding tier. Higher tiers apply first.
type Precedence int

const (
	Additive Precedence = iota + 1
	Multiplicative
)

// Operator is one of the four left-associative binary operators.
type Operator int

const (
	Plus Operator = iota + 1
	Minus
	Times
	Divide
)

// OperatorFromRune returns the operator for r, or false if r is not an operator.
func OperatorFromRune(r rune) (Operator, bool) {
	switch r {
	case RunePlus:
		return Plus, true
	case RuneMinus:
		return Minus, true
	case RuneTimes:
		return Times, true
	case RuneDivide:
		return Divide, true
	}
	return 0, false
}

// OperatorFromString returns the operator whose symbol is exactly s.
func OperatorFromString(s string) (Operator, bool) {
	if len(s) != 1 {
		return 0, false
	}
	return OperatorFromRune(rune(s[0]))
}

// Precedence returns the operator's tier.
func (o Operator) Precedence() Precedence {
	switch o {
	case Times, Divide:
		return Multiplicative
	default:
		return Additive
	}
}

// Apply computes x op y. Division follows IEEE 754, so x/0 is ±Inf or NaN.
func (o Operator) Apply(x, y float64) float64 {
	switch o {
	case Plus:
		return x + y
	case Minus:
		return x - y
	case Times:
		return x * y
	case Divide:
		return x / y
	}
	panic("token: apply of invalid operator")
}

// String returns the operator's symbol.
func (o Operator) String() string {
	switch o {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Times:
		return "*"
	case Divide:
		return "/"
	default:
		return "?"
	}
}
