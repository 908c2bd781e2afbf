package cell

import (
	"fmt"
	"strconv"
	"unicode"
)

// Address is a zero-based (row, column) coordinate.
type Address struct {
	Row int
	Col int
}

// ParseRef decodes a reference such as "C2" into Address{Row: 1, Col: 2}.
// The column letter is case-insensitive and the row number is 1-based, so
// "A0" decodes to row -1; callers bounds-check the result.
func ParseRef(ref string) (Address, error) {
	if len(ref) < 2 {
		return Address{}, fmt.Errorf("invalid cell reference %q", ref)
	}
	letter := unicode.ToUpper(rune(ref[0]))
	if letter < 'A' || letter > 'Z' {
		return Address{}, fmt.Errorf("invalid cell reference %q", ref)
	}
	for _, r := range ref[1:] {
		if r < '0' || r > '9' {
			return Address{}, fmt.Errorf("invalid cell reference %q", ref)
		}
	}
	row, err := strconv.Atoi(ref[1:])
	if err != nil {
		return Address{}, fmt.Errorf("invalid cell reference %q: %w", ref, err)
	}
	return Address{Row: row - 1, Col: int(letter - 'A')}, nil
}

// ColumnName returns the letters for a zero-based column: 0 -> "A", 26 -> "AA".
func ColumnName(col int) string {
	if col < 0 {
		return "?"
	}
	var buf []byte
	for col >= 0 {
		buf = append([]byte{byte('A' + col%26)}, buf...)
		col = col/26 - 1
	}
	return string(buf)
}

// String returns the address in A1 notation.
func (a Address) String() string {
	return ColumnName(a.Col) + strconv.Itoa(a.Row+1)
}
