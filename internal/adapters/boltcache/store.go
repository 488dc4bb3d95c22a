// Package boltcache implements the ports.Storage interface using bbolt
// (embedded B+ tree). Aggregation payloads live in a single bucket keyed by
// dataset fingerprint. Writes are transactional — a crash mid-write cannot
// corrupt previously committed data.
package boltcache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketAggregates = []byte("aggregates")

// Store implements ports.Storage backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path, creating
// parent directories as needed.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveAggregate persists an aggregation payload under its fingerprint.
func (s *Store) SaveAggregate(fingerprint string, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("empty payload")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketAggregates)
		if err != nil {
			return err
		}
		return b.Put([]byte(fingerprint), payload)
	})
}

// LoadAggregate retrieves the payload for a fingerprint.
// Returns nil, nil on a miss.
func (s *Store) LoadAggregate(fingerprint string) ([]byte, error) {
	var payload []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAggregates)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(fingerprint)); v != nil {
			payload = make([]byte, len(v))
			copy(payload, v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bbolt view: %w", err)
	}
	return payload, nil
}
