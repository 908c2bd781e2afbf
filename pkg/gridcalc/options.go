package gridcalc

import (
	"log"

	"nickandperla.net/gridcalc/internal/eval"
	"nickandperla.net/gridcalc/internal/store"
)

// Option configures a Sheet.
type Option func(*Sheet)

// WithLogger traces evaluation to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Sheet) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore uses st for Save, Load and History. The sheet closes it on Close.
func WithStore(st Store) Option {
	return func(s *Sheet) {
		s.store = st
	}
}

// WithSQLiteStore configures SQLite persistence at the given path.
func WithSQLiteStore(path string) Option {
	return func(s *Sheet) {
		st, err := store.NewSQLite(path)
		if err != nil {
			s.optErr = err
			return
		}
		s.store = st
	}
}

// WithBoltStore configures bbolt persistence at the given path.
func WithBoltStore(path string) Option {
	return func(s *Sheet) {
		st, err := store.NewBolt(path)
		if err != nil {
			s.optErr = err
			return
		}
		s.store = st
	}
}

// WithMemoryStore configures an in-memory store (for testing).
func WithMemoryStore() Option {
	return func(s *Sheet) {
		s.store = store.NewMemory()
	}
}

// WithPrecision sets the number of decimals kept by Rounded and WriteFile.
// A negative precision disables rounding.
func WithPrecision(n int) Option {
	return func(s *Sheet) {
		s.precision = n
	}
}

// WithDelimiter sets the field separator for delimited text files.
func WithDelimiter(r rune) Option {
	return func(s *Sheet) {
		s.io.Delimiter = r
	}
}

// WithWorksheet selects the worksheet read from and written to .xlsx files.
func WithWorksheet(name string) Option {
	return func(s *Sheet) {
		s.io.Sheet = name
	}
}

// WithTraversal sets the order in which cells are visited. The results do
// not depend on it.
func WithTraversal(t Traversal) Option {
	return func(s *Sheet) {
		if t != nil {
			s.traversal = t
		}
	}
}

// Traversal lists grid coordinates in visiting order.
type Traversal = eval.Traversal

// Traversal orders.
var (
	RowMajor    Traversal = eval.RowMajor
	ColumnMajor Traversal = eval.ColumnMajor
)

// Reverse visits the coordinates of t backwards.
func Reverse(t Traversal) Traversal {
	return eval.Reverse(t)
}

// Store interface for custom stores.
type Store = store.HistoryStore

// Snapshot is a stored sheet: raw text and evaluated values.
type Snapshot = store.Snapshot

// VersionEntry is one stored version of a sheet.
type VersionEntry = store.VersionEntry

// OpenStore opens a store by driver name: sqlite, bolt or memory.
func OpenStore(driver, path string) (Store, error) {
	return store.Open(driver, path)
}
