package store

import (
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory store for testing.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]VersionEntry // oldest first
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]VersionEntry)}
}

// Get retrieves the latest snapshot by name.
func (m *Memory) Get(name string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	versions := m.data[name]
	if len(versions) == 0 {
		return nil, nil
	}
	return versions[len(versions)-1].Snapshot, nil
}

// Put stores a new version of a snapshot.
func (m *Memory) Put(name string, s *Snapshot) error {
	if s == nil {
		return ErrNilSnapshot
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	versions := m.data[name]
	if n := len(versions); n > 0 && versions[n-1].Snapshot.Equal(s) {
		return nil
	}
	m.data[name] = append(versions, VersionEntry{
		Version:  len(versions) + 1,
		Snapshot: s,
		Ts:       time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// Delete removes a snapshot and all its versions.
func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	return nil
}

// List returns the stored names.
func (m *Memory) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetHistory returns versions newest first.
func (m *Memory) GetHistory(name string, limit int) ([]VersionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	versions := m.data[name]
	if len(versions) == 0 {
		return nil, nil
	}
	var entries []VersionEntry
	for i := len(versions) - 1; i >= 0; i-- {
		if limit > 0 && len(entries) == limit {
			break
		}
		entries = append(entries, versions[i])
	}
	return entries, nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}

