package eval

import "nickandperla.net/gridcalc/internal/cell"

// Visited records which cells have started evaluation during one pass.
// A single instance is shared by every recursive call of that pass.
type Visited struct {
	cols  int
	marks []bool
}

// NewVisited creates an empty marker set shaped like a rows x cols grid.
func NewVisited(rows, cols int) *Visited {
	return &Visited{cols: cols, marks: make([]bool, rows*cols)}
}

// Mark records that evaluation of a has begun. a must be inside the grid.
func (v *Visited) Mark(a cell.Address) {
	v.marks[a.Row*v.cols+a.Col] = true
}

// Marked reports whether evaluation of a has begun.
func (v *Visited) Marked(a cell.Address) bool {
	return v.marks[a.Row*v.cols+a.Col]
}

// Traversal lists the coordinates of a rows x cols grid in visiting order.
type Traversal func(rows, cols int) []cell.Address

// RowMajor visits A1, B1, ..., A2, B2, ...
func RowMajor(rows, cols int) []cell.Address {
	out := make([]cell.Address, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out = append(out, cell.Address{Row: i, Col: j})
		}
	}
	return out
}

// ColumnMajor visits A1, A2, ..., B1, B2, ...
func ColumnMajor(rows, cols int) []cell.Address {
	out := make([]cell.Address, 0, rows*cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			out = append(out, cell.Address{Row: i, Col: j})
		}
	}
	return out
}

// Reverse visits the coordinates of t backwards.
func Reverse(t Traversal) Traversal {
	return func(rows, cols int) []cell.Address {
		out := t(rows, cols)
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		return out
	}
}
