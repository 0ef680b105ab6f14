package auth

import (
	"encoding/json"
	"log/slog"

	"github.com/pikacards/storefront/storage"
)

const sessionRecordID = "current"

// Store persists the authentication session through a storage.Repository.
// A stored session whose token has expired is purged on load and treated as
// absent, matching the hydration policy for the rest of the client state.
type Store struct {
	repo   storage.Repository
	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a session store backed by the given repository.
func NewStore(repo storage.Repository, opts ...StoreOption) *Store {
	s := &Store{repo: repo, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the current session, or nil when none is stored, the stored
// record is corrupt, or the token has expired. Corrupt and expired records
// are deleted; neither is an error.
func (s *Store) Load() *Session {
	data, err := s.repo.Get(storage.RecordAuth, sessionRecordID)
	if err != nil {
		return nil
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Debug("discarding corrupt auth record", "error", err)
		s.purge()
		return nil
	}
	if session.Expired() {
		s.purge()
		return nil
	}
	return &session
}

// Save persists the session. A nil session clears the store.
func (s *Store) Save(session *Session) error {
	if session == nil {
		s.purge()
		return nil
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.repo.Put(storage.RecordAuth, sessionRecordID, data)
}

// Clear removes any stored session. Used on logout.
func (s *Store) Clear() {
	s.purge()
}

// Valid reports whether a usable session is currently stored.
func (s *Store) Valid() bool {
	return s.Load() != nil
}

// Token returns the current bearer token. ok is false when no usable
// session exists.
func (s *Store) Token() (token string, ok bool) {
	session := s.Load()
	if session == nil {
		return "", false
	}
	return session.Token, true
}

func (s *Store) purge() {
	if err := s.repo.Delete(storage.RecordAuth, sessionRecordID); err != nil {
		s.logger.Debug("purging auth record", "error", err)
	}
}
