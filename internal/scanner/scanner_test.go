// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package scanner

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nickandperla.net/gridcalc/internal/token"
)

// values flattens items to their text for comparison.
func values(items []*Item) []string {
	var out []string
	for _, item := range items {
		out = append(out, item.Value)
	}
	return out
}

func TestSplit(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"1+2*3+5", []string{"1", "+", "2", "*", "3", "+", "5"}},
		{"B2-3", []string{"B2", "-", "3"}},
		{"-5", []string{"-", "5"}},
		{"3*-2", []string{"3", "*", "-", "2"}},
		{"42", []string{"42"}},
		{"", nil},
	}

	for _, tt := range tests {
		items, err := NewFromString(tt.input).Split()
		if err != nil {
			t.Fatalf("Split(%q): unexpected error: %v", tt.input, err)
		}
		if diff := cmp.Diff(tt.expected, values(items)); diff != "" {
			t.Errorf("Split(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestSplitOffsets(t *testing.T) {
	items, err := NewFromString("10+B2").Split()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{0, 2, 3}
	for i, item := range items {
		if item.Offset != want[i] {
			t.Errorf("item %d (%q): offset %d, want %d", i, item.Value, item.Offset, want[i])
		}
	}
}

func TestTokenize(t *testing.T) {
	items, err := Tokenize("A1*2.5-C3/4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	kinds := []token.Token{
		token.REFERENCE, token.OPERATOR, token.NUMBER, token.OPERATOR,
		token.REFERENCE, token.OPERATOR, token.NUMBER,
	}
	if len(items) != len(kinds) {
		t.Fatalf("expected %d items, got %d: %v", len(kinds), len(items), values(items))
	}
	for i, item := range items {
		if item.Token != kinds[i] {
			t.Errorf("item %d (%q): got %v, want %v", i, item.Value, item.Token, kinds[i])
		}
	}
	if items[0].Ref != "A1" || items[2].Number != 2.5 || items[3].Op != token.Minus {
		t.Errorf("unexpected item payloads: %+v %+v %+v", items[0], items[2], items[3])
	}
}

func TestTokenizeLeadingSign(t *testing.T) {
	tests := []struct {
		input  string
		first  token.Token
		value  string
		number float64
	}{
		{"-5+1", token.NUMBER, "-5", -5},
		{"+5", token.NUMBER, "+5", 5},
		{"-0.5*2", token.NUMBER, "-0.5", -0.5},
	}

	for _, tt := range tests {
		items, err := Tokenize(tt.input)
		if err != nil {
			t.Fatalf("Tokenize(%q): unexpected error: %v", tt.input, err)
		}
		first := items[0]
		if first.Token != tt.first || first.Value != tt.value || first.Number != tt.number {
			t.Errorf("Tokenize(%q): first item %+v", tt.input, first)
		}
		if first.Offset != 0 {
			t.Errorf("Tokenize(%q): merged item should start at 0, got %d", tt.input, first.Offset)
		}
	}
}

func TestTokenizeInteriorSignIsOperator(t *testing.T) {
	items, err := Tokenize("3*-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"3", "*", "-", "2"}, values(items)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if items[2].Token != token.OPERATOR {
		t.Errorf("interior '-' should stay an operator, got %v", items[2].Token)
	}
}

func TestTokenizeInvalid(t *testing.T) {
	tests := []struct {
		input string
		bad   string
	}{
		{"", ""},
		{"-", "-"},
		{"1 + 2", "1 "},
		{"a1+1", "a1"},
		{"AB1", "AB1"},
		{"2^3", "2^3"},
		{"1+.5", ".5"},
		{"SUM(A1)", "SUM(A1)"},
	}

	for _, tt := range tests {
		_, err := Tokenize(tt.input)
		var invalid *InvalidTokenError
		if !errors.As(err, &invalid) {
			t.Errorf("Tokenize(%q): expected InvalidTokenError, got %v", tt.input, err)
			continue
		}
		if invalid.Token != tt.bad {
			t.Errorf("Tokenize(%q): bad token %q, want %q", tt.input, invalid.Token, tt.bad)
		}
	}
}

func TestTokenizeSignedReferenceRejected(t *testing.T) {
	tests := []struct {
		input string
		token string
	}{
		{"-A1*2", "-A1"},
		{"+B2", "+B2"},
		{"-B1", "-B1"},
	}

	for _, tt := range tests {
		_, err := Tokenize(tt.input)
		var invalid *InvalidTokenError
		if !errors.As(err, &invalid) {
			t.Errorf("Tokenize(%q): expected InvalidTokenError, got %v", tt.input, err)
			continue
		}
		if invalid.Token != tt.token || invalid.Offset != 0 {
			t.Errorf("Tokenize(%q): expected %q at 0, got %q at %d", tt.input, tt.token, invalid.Token, invalid.Offset)
		}
	}
}

func TestTokenizeHugeLiteral(t *testing.T) {
	huge := "1" + strings.Repeat("0", 400)
	items, err := Tokenize(huge + "+1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Token != token.NUMBER || !math.IsInf(items[0].Number, 1) {
		t.Errorf("expected +Inf NUMBER, got %+v", items[0])
	}
}
