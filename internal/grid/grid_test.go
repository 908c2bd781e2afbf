package grid

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nickandperla.net/gridcalc/internal/cell"
)

func TestNew(t *testing.T) {
	g, err := New([][]string{{"1", "A1+1"}, {"2.5", "B1*2"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Rows() != 2 || g.Cols() != 2 {
		t.Fatalf("expected 2x2, got %dx%d", g.Rows(), g.Cols())
	}

	c, err := g.Get(cell.Address{Row: 1, Col: 0})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, ok := c.(cell.Literal); !ok {
		t.Errorf("expected Literal at A2, got %T", c)
	}

	c, _ = g.Get(cell.Address{Row: 0, Col: 1})
	if _, ok := c.(cell.Unevaluated); !ok {
		t.Errorf("expected Unevaluated at B1, got %T", c)
	}
}

func TestNewRagged(t *testing.T) {
	_, err := New([][]string{{"1", "2"}, {"3"}})
	if !errors.Is(err, ErrNotRectangular) {
		t.Fatalf("expected ErrNotRectangular, got %v", err)
	}
}

func TestEmpty(t *testing.T) {
	g, err := New(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Rows() != 0 || g.Cols() != 0 {
		t.Errorf("expected 0x0, got %dx%d", g.Rows(), g.Cols())
	}
	if len(g.Strings()) != 0 {
		t.Errorf("expected no rows")
	}
}

func TestOutOfBounds(t *testing.T) {
	g, _ := New([][]string{{"1", "2"}})

	tests := []cell.Address{
		{Row: 1, Col: 0},
		{Row: 0, Col: 2},
		{Row: -1, Col: 0},
		{Row: 0, Col: -1},
	}

	for _, a := range tests {
		var oob *OutOfBoundsError
		if _, err := g.Get(a); !errors.As(err, &oob) {
			t.Errorf("Get(%+v): expected OutOfBoundsError, got %v", a, err)
		} else if oob.Cell != a || oob.Rows != 1 || oob.Cols != 2 {
			t.Errorf("Get(%+v): unexpected error fields %+v", a, oob)
		}
		if err := g.Set(a, cell.Resolved{Value: 1}); !errors.As(err, &oob) {
			t.Errorf("Set(%+v): expected OutOfBoundsError, got %v", a, err)
		}
		if _, err := g.Text(a.Row, a.Col); !errors.As(err, &oob) {
			t.Errorf("Text(%+v): expected OutOfBoundsError, got %v", a, err)
		}
	}
}

func TestSetAndClone(t *testing.T) {
	g, _ := New([][]string{{"7+5", "1"}})
	clone := g.Clone()

	if err := g.Set(cell.Address{Row: 0, Col: 0}, cell.Resolved{Value: 12}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if diff := cmp.Diff([][]string{{"12.0", "1"}}, g.Strings()); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"7+5", "1"}}, clone.Strings()); diff != "" {
		t.Errorf("clone should be unaffected (-want +got):\n%s", diff)
	}
}
