// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner splits cell expressions into tokens.
package scanner

import (
	"bufio"
	"io"
	"strings"

	"nickandperla.net/gridcalc/internal/token"
)

// Scanner splits an expression rune-by-rune at every operator boundary.
// Operator runes are always returned on their own; everything between them is
// returned as a single TEXT item.
type Scanner struct {
	reader *bufio.Reader
	buf    strings.Builder
	offset int // Byte offset of the next rune
}

// Item represents a scanned token with its value.
type Item struct {
	Token  token.Token
	Value  string
	Offset int // Byte offset where this token started

	Op     token.Operator // OPERATOR only
	Number float64        // NUMBER only
	Ref    string         // REFERENCE only
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReader(r)}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// Next returns the next TEXT or OPERATOR item, or an EOF item at the end of input.
func (s *Scanner) Next() (*Item, error) {
	s.buf.Reset()
	start := s.offset

	for {
		r, size, err := s.reader.ReadRune()
		if err == io.EOF {
			if s.buf.Len() > 0 {
				return &Item{Token: token.TEXT, Value: s.buf.String(), Offset: start}, nil
			}
			return &Item{Token: token.EOF, Offset: s.offset}, nil
		}
		if err != nil {
			return nil, err
		}

		if op, ok := token.OperatorFromRune(r); ok {
			// Return accumulated operand text first
			if s.buf.Len() > 0 {
				s.reader.UnreadRune()
				return &Item{Token: token.TEXT, Value: s.buf.String(), Offset: start}, nil
			}
			s.offset += size
			return &Item{Token: token.OPERATOR, Value: string(r), Offset: start, Op: op}, nil
		}

		s.offset += size
		s.buf.WriteRune(r)
	}
}

// Split returns every item up to, but not including, EOF.
func (s *Scanner) Split() ([]*Item, error) {
	var items []*Item
	for {
		item, err := s.Next()
		if err != nil {
			return nil, err
		}
		if item.Token == token.EOF {
			return items, nil
		}
		items = append(items, item)
	}
}
