package scanner

import (
	"fmt"
	"regexp"

	"nickandperla.net/gridcalc/internal/cell"
	"nickandperla.net/gridcalc/internal/token"
)

var refPattern = regexp.MustCompile(`^[A-Z][0-9]+$`)

// InvalidTokenError reports text that is neither a number, a reference nor an operator.
type InvalidTokenError struct {
	Token  string
	Offset int
}

func (e *InvalidTokenError) Error() string {
	if e.Token == "" {
		return "empty expression"
	}
	return fmt.Sprintf("invalid token %q at offset %d", e.Token, e.Offset)
}

// Tokenize splits text into classified items.
//
// A '+' or '-' that opens the expression is merged into the operand after it,
// so "-5" is a signed number. A merged sign before a reference ("-A1") is
// not a number or a reference and fails to classify. A sign anywhere else
// stays a binary operator, so "3*-2" yields 3, *, -, 2.
func Tokenize(text string) ([]*Item, error) {
	items, err := NewFromString(text).Split()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &InvalidTokenError{}
	}

	if first := items[0]; first.Token == token.OPERATOR && token.IsSign(rune(first.Value[0])) {
		if len(items) == 1 {
			return nil, &InvalidTokenError{Token: first.Value, Offset: first.Offset}
		}
		next := items[1]
		next.Value = first.Value + next.Value
		next.Offset = first.Offset
		next.Token = token.TEXT
		items = items[1:]
	}

	for _, item := range items {
		if err := classify(item); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// classify resolves a TEXT item into NUMBER or REFERENCE. Operators are
// already classified by the splitter.
func classify(item *Item) error {
	if item.Token == token.OPERATOR {
		return nil
	}

	v := item.Value
	if n, ok := cell.ParseNumber(v); ok {
		item.Token = token.NUMBER
		item.Number = n
		return nil
	}
	if !refPattern.MatchString(v) {
		return &InvalidTokenError{Token: v, Offset: item.Offset}
	}
	item.Token = token.REFERENCE
	item.Ref = v
	return nil
}
