package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// SQLite is a SQLite-backed store.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite creates a new SQLite store at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}

	// Create tables if not exists
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sheets (
			name TEXT NOT NULL,
			version INTEGER NOT NULL,
			raw TEXT NOT NULL,
			vals TEXT NOT NULL,
			ts TEXT NOT NULL,
			PRIMARY KEY (name, version)
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db}

	// Check/set schema version (use unlocked versions since we're in init)
	version, err := s.getMetadataUnlocked("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}

	switch version {
	case "":
		if err := s.setMetadataUnlocked("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

// latestUnlocked returns the newest version of name (caller must hold lock).
func (s *SQLite) latestUnlocked(name string) (int, *Snapshot, error) {
	var (
		version   int
		raw, vals string
	)
	err := s.db.QueryRow(
		"SELECT version, raw, vals FROM sheets WHERE name = ? ORDER BY version DESC LIMIT 1", name,
	).Scan(&version, &raw, &vals)
	if err == sql.ErrNoRows {
		return 0, nil, nil
	}
	if err != nil {
		return 0, nil, err
	}
	snap, err := decodeSnapshot(raw, vals)
	if err != nil {
		return 0, nil, fmt.Errorf("decode sheet %q v%d: %w", name, version, err)
	}
	return version, snap, nil
}

// Get retrieves the latest snapshot by name.
func (s *SQLite) Get(name string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, snap, err := s.latestUnlocked(name)
	return snap, err
}

// Put stores a new version of a snapshot.
func (s *SQLite) Put(name string, snap *Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	version, latest, err := s.latestUnlocked(name)
	if err != nil {
		return err
	}
	if latest.Equal(snap) {
		return nil
	}

	raw, err := encodeRows(snap.Raw)
	if err != nil {
		return err
	}
	vals, err := encodeRows(snap.Values)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"INSERT INTO sheets (name, version, raw, vals, ts) VALUES (?, ?, ?, ?, ?)",
		name, version+1, raw, vals, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Delete removes a snapshot and all its versions.
func (s *SQLite) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM sheets WHERE name = ?", name)
	return err
}

// List returns the stored names.
func (s *SQLite) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query("SELECT DISTINCT name FROM sheets ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetHistory returns versions newest first.
func (s *SQLite) GetHistory(name string, limit int) ([]VersionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := "SELECT version, raw, vals, ts FROM sheets WHERE name = ? ORDER BY version DESC"
	args := []any{name}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []VersionEntry
	for rows.Next() {
		var (
			e         VersionEntry
			raw, vals string
		)
		if err := rows.Scan(&e.Version, &raw, &vals, &e.Ts); err != nil {
			return nil, err
		}
		if e.Snapshot, err = decodeSnapshot(raw, vals); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// getMetadataUnlocked retrieves metadata without locking (caller must hold lock).
func (s *SQLite) getMetadataUnlocked(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// setMetadataUnlocked stores metadata without locking (caller must hold lock).
func (s *SQLite) setMetadataUnlocked(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func decodeSnapshot(raw, vals string) (*Snapshot, error) {
	r, err := decodeRows(raw)
	if err != nil {
		return nil, err
	}
	v, err := decodeRows(vals)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Raw: r, Values: v}, nil
}
