// Package store provides persistence for evaluated sheets.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNilSnapshot is returned by Put when given a nil snapshot.
var ErrNilSnapshot = errors.New("nil snapshot")

// SchemaVersion is the current on-disk layout version.
const SchemaVersion = "1"

// Snapshot is one saved evaluation: the raw cell text and the evaluated text.
type Snapshot struct {
	Raw    [][]string `json:"raw"`
	Values [][]string `json:"values"`
}

// Equal reports whether two snapshots hold the same cells.
func (s *Snapshot) Equal(o *Snapshot) bool {
	if s == nil || o == nil {
		return s == o
	}
	return equalRows(s.Raw, o.Raw) && equalRows(s.Values, o.Values)
}

func equalRows(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// Store is the interface for sheet persistence.
type Store interface {
	// Get retrieves the latest snapshot by name. Returns nil if not found.
	Get(name string) (*Snapshot, error)
	// Put stores a new version of a snapshot. Storing a snapshot equal to
	// the latest version is a no-op.
	Put(name string, s *Snapshot) error
	// Delete removes a snapshot and all its versions.
	Delete(name string) error
	// List returns the names of stored snapshots in ascending order.
	List() ([]string, error)
	// Close releases resources.
	Close() error
}

// VersionEntry represents a single version of a stored snapshot.
type VersionEntry struct {
	Version  int
	Snapshot *Snapshot
	Ts       string
}

// HistoryStore extends Store with version history queries.
type HistoryStore interface {
	Store
	// GetHistory returns up to limit versions, newest first. A limit of 0
	// returns all versions.
	GetHistory(name string, limit int) ([]VersionEntry, error)
}

// record is the serialized form of one version.
type record struct {
	Raw    [][]string `json:"raw"`
	Values [][]string `json:"values"`
	Ts     string     `json:"ts,omitempty"`
}

func encodeRows(rows [][]string) (string, error) {
	b, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeRows(s string) ([][]string, error) {
	var rows [][]string
	if err := json.Unmarshal([]byte(s), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Open creates a store for the named driver: "sqlite", "bolt" or "memory".
func Open(driver, path string) (HistoryStore, error) {
	switch driver {
	case "sqlite":
		s, err := NewSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "bolt":
		s, err := NewBolt(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q (use sqlite, bolt or memory)", driver)
	}
}
