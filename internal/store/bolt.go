package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	bucketSheets   = "sheets"
	bucketMetadata = "metadata"
)

var initDB = map[string]func(*bolt.Tx) error{
	"initialize sheet table": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSheets))
		return err
	},
	"initialize metadata table": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketMetadata))
		return err
	},
}

// Bolt is a bbolt-backed store. Each sheet is a nested bucket of versions
// keyed by the bucket's sequence number.
type Bolt struct {
	db *bolt.DB
}

// NewBolt opens or creates a bbolt database at the given path.
func NewBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		meta := tx.Bucket([]byte(bucketMetadata))
		switch v := string(meta.Get([]byte("schema_version"))); v {
		case "":
			return meta.Put([]byte("schema_version"), []byte(SchemaVersion))
		case SchemaVersion:
			return nil
		default:
			return fmt.Errorf("unsupported schema version: %s (expected %s)", v, SchemaVersion)
		}
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Bolt{db: db}, nil
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}

func decodeRecord(v []byte) (record, error) {
	var r record
	err := json.Unmarshal(v, &r)
	return r, err
}

// Get retrieves the latest snapshot by name.
func (s *Bolt) Get(name string) (*Snapshot, error) {
	var snap *Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSheets)).Bucket([]byte(name))
		if b == nil {
			return nil
		}
		k, v := b.Cursor().Last()
		if k == nil {
			return nil
		}
		r, err := decodeRecord(v)
		if err != nil {
			return err
		}
		snap = &Snapshot{Raw: r.Raw, Values: r.Values}
		return nil
	})
	return snap, err
}

// Put stores a new version of a snapshot.
func (s *Bolt) Put(name string, snap *Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket([]byte(bucketSheets)).CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
		if k, v := b.Cursor().Last(); k != nil {
			r, err := decodeRecord(v)
			if err != nil {
				return err
			}
			if snap.Equal(&Snapshot{Raw: r.Raw, Values: r.Values}) {
				return nil
			}
		}

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(record{
			Raw:    snap.Raw,
			Values: snap.Values,
			Ts:     time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), data)
	})
}

// Delete removes a snapshot and all its versions.
func (s *Bolt) Delete(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.Bucket([]byte(bucketSheets)).DeleteBucket([]byte(name))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

// List returns the stored names.
func (s *Bolt) List() ([]string, error) {
	names := []string{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSheets)).ForEach(func(k, v []byte) error {
			// Nested buckets have nil values
			if v == nil {
				names = append(names, string(k))
			}
			return nil
		})
	})
	return names, err
}

// GetHistory returns versions newest first.
func (s *Bolt) GetHistory(name string, limit int) ([]VersionEntry, error) {
	var entries []VersionEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSheets)).Bucket([]byte(name))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) == limit {
				break
			}
			r, err := decodeRecord(v)
			if err != nil {
				return err
			}
			entries = append(entries, VersionEntry{
				Version:  int(unmarshalSeq(k)),
				Snapshot: &Snapshot{Raw: r.Raw, Values: r.Values},
				Ts:       r.Ts,
			})
		}
		return nil
	})
	return entries, err
}

// Close closes the database.
func (s *Bolt) Close() error {
	return s.db.Close()
}
