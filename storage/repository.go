// Package storage provides the persistence port for durable client-local records.
package storage

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Record types for the client's durable state.
const (
	RecordCart    = "CART"
	RecordAuth    = "AUTH"
	RecordProfile = "PROFILE"
	RecordPrefs   = "PREFS"
)

// Repository defines the interface for durable record storage. Records are
// raw JSON blobs keyed by (recordType, recordID).
type Repository interface {
	Put(recordType string, recordID string, data []byte) error
	Get(recordType string, recordID string) ([]byte, error)
	Delete(recordType string, recordID string) error
	List(recordType string) ([]string, error)
}
