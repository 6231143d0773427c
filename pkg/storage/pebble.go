package storage

import (
	"fmt"

	"github.com/cockroachdb/pebble"
)

// DB wraps a Pebble database that hosts one or more store documents, each
// under its own key.
type DB struct {
	db *pebble.DB
}

// Open opens (or creates) a Pebble database at path.
func Open(path string) (*DB, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble db at %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error { return d.db.Close() }

// Medium returns the document medium stored under name.
func (d *DB) Medium(name string) *PebbleMedium {
	return &PebbleMedium{db: d.db, key: append([]byte("doc:"), name...)}
}

// PebbleMedium holds one store document under a single Pebble key, so the
// whole-document load/replace cycle of DocStore carries over unchanged.
type PebbleMedium struct {
	db  *pebble.DB
	key []byte
}

func (m *PebbleMedium) Load() ([]byte, error) {
	val, closer, err := m.db.Get(m.key)
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	defer closer.Close()
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *PebbleMedium) Store(data []byte) error {
	if err := m.db.Set(m.key, data, pebble.Sync); err != nil {
		return fmt.Errorf("store document: %w", err)
	}
	return nil
}

var _ Medium = (*PebbleMedium)(nil)
