// Package recent persists the short list of a user's most recent search
// terms across sessions, backed by a local BadgerDB store.
package recent

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// MaxTerms bounds the list to the most recent distinct terms; the oldest
// entry is evicted first.
const MaxTerms = 10

var storeKey = []byte("recent_searches")

// Store is a handle to the on-disk list. It is safe for concurrent use;
// Badger serializes the read-modify-write in Record through its transaction.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store in the given directory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open recent-search store: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a store that does not touch disk, for tests and demos.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open recent-search store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying store.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Terms returns the recorded terms, most recent first.
func (s *Store) Terms() ([]string, error) {
	var terms []string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storeKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &terms)
		})
	})
	if err != nil {
		return nil, err
	}
	return terms, nil
}

// Record moves the term to the front of the list, dropping any previous
// occurrence and evicting the oldest entry beyond MaxTerms. Empty terms are
// ignored.
func (s *Store) Record(term string) error {
	if term == "" {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		var terms []string
		item, err := txn.Get(storeKey)
		if err == nil {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &terms)
			}); err != nil {
				return fmt.Errorf("failed to decode recent searches: %w", err)
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		next := make([]string, 0, len(terms)+1)
		next = append(next, term)
		for _, t := range terms {
			if t != term {
				next = append(next, t)
			}
		}
		if len(next) > MaxTerms {
			next = next[:MaxTerms]
		}

		data, err := json.Marshal(next)
		if err != nil {
			return err
		}
		return txn.Set(storeKey, data)
	})
}
