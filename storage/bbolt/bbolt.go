// Package bbolt provides a BBolt-backed storage repository.
package bbolt

import (
	"bytes"
	"fmt"

	"github.com/pikacards/storefront/storage"
	"go.etcd.io/bbolt"
)

// Store implements storage.Repository backed by a BBolt database.
// Each record type maps to its own bucket.
type Store struct {
	db *bbolt.DB
}

var _ storage.Repository = (*Store)(nil)

// NewRepository returns a Repository backed by the given BBolt database.
func NewRepository(db *bbolt.DB) *Store {
	return &Store{db: db}
}

// NewRepositoryFromFile opens a BBolt database at the given path and returns a new Repository.
func NewRepositoryFromFile(path string, options *bbolt.Options) (*Store, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewRepository(db), nil
}

// Close closes the underlying BBolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Put(recordType, recordID string, data []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(recordType))
		if err != nil {
			return err
		}
		return b.Put([]byte(recordID), bytes.Clone(data))
	})
}

func (s *Store) Get(recordType, recordID string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(recordType))
		if b == nil {
			return fmt.Errorf("%s/%s: %w", recordType, recordID, storage.ErrNotFound)
		}
		v := b.Get([]byte(recordID))
		if v == nil {
			return fmt.Errorf("%s/%s: %w", recordType, recordID, storage.ErrNotFound)
		}
		data = bytes.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) Delete(recordType, recordID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(recordType))
		if b == nil {
			return fmt.Errorf("%s/%s: %w", recordType, recordID, storage.ErrNotFound)
		}
		if b.Get([]byte(recordID)) == nil {
			return fmt.Errorf("%s/%s: %w", recordType, recordID, storage.ErrNotFound)
		}
		return b.Delete([]byte(recordID))
	})
}

func (s *Store) List(recordType string) ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(recordType))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}
