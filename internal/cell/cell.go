// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package cell defines the states a grid cell moves through during evaluation.
package cell

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`^[+-]?([0-9]+\.)?[0-9]+$`)

// IsNumber reports whether s is a plain signed decimal literal such as
// "12", "-3.5" or "+0.25". Exponents, bare dots and whitespace are rejected.
func IsNumber(s string) bool {
	return numberPattern.MatchString(s)
}

// ParseNumber converts text matching the number pattern to a float64.
// Magnitudes beyond float64 become ±Inf rather than an error.
func ParseNumber(s string) (float64, bool) {
	if !IsNumber(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
			return 0, false
		}
	}
	return v, true
}

// Cell is the interface all cell states implement.
type Cell interface {
	// String returns the cell's current text.
	String() string
	// Number returns the cell's numeric value and true once it has one.
	Number() (float64, bool)
}

// Literal is a cell whose raw text was already a plain number.
type Literal struct {
	Text  string
	Value float64
}

func (l Literal) String() string          { return l.Text }
func (l Literal) Number() (float64, bool) { return l.Value, true }

// Unevaluated is a cell holding expression text that has not been computed yet.
type Unevaluated struct {
	Text string
}

func (u Unevaluated) String() string          { return u.Text }
func (u Unevaluated) Number() (float64, bool) { return 0, false }

// Resolved is an expression cell after evaluation.
type Resolved struct {
	Value float64
}

func (r Resolved) String() string          { return FormatNumber(r.Value) }
func (r Resolved) Number() (float64, bool) { return r.Value, true }

// Parse classifies raw cell text.
func Parse(raw string) Cell {
	if v, ok := ParseNumber(raw); ok {
		return Literal{Text: raw, Value: v}
	}
	return Unevaluated{Text: raw}
}

// FormatNumber renders v as decimal text. Integral values keep a trailing
// ".0" so that "12" computed from "7+5" reads back as "12.0".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
