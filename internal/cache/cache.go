package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

const fileName = "extraction.db"

// Store is a content-addressed extraction cache backed by a bbolt file under
// one run's output directory. Keys are the literal extracted markdown text,
// so byte-identical input never triggers a second model call. Entries are
// bucketed per model name: a document extracted by one model is never served
// to a run using another.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open opens (or creates) the cache file under dir, scoped to the given model.
func Open(dir, model string) (*Store, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("cache: model name is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, fileName), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache store: %w", err)
	}

	bucket := []byte(model)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache bucket for model %q: %w", model, err)
	}

	return &Store{db: db, bucket: bucket}, nil
}

// Get returns the serialized document stored for the given source text.
func (s *Store) Get(text string) ([]byte, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, errors.New("cache: store is not open")
	}

	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		stored := tx.Bucket(s.bucket).Get([]byte(text))
		if stored == nil {
			return nil
		}
		// bbolt values are only valid inside the transaction.
		value = make([]byte, len(stored))
		copy(value, stored)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	return value, value != nil, nil
}

// Put stores the serialized document under the given source text.
func (s *Store) Put(text string, doc []byte) error {
	if s == nil || s.db == nil {
		return errors.New("cache: store is not open")
	}
	if len(doc) == 0 {
		return errors.New("cache: refusing to store an empty document")
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(text), doc)
	})
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}

	return nil
}

// Close releases the backing file. It must be called exactly once at the end
// of a run; a store left open keeps the file lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	db := s.db
	s.db = nil
	return db.Close()
}
