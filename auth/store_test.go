package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/pikacards/storefront/storage"
	"github.com/pikacards/storefront/storage/memory"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(memory.NewRepository())

	require.Nil(t, store.Load())
	require.False(t, store.Valid())

	session := &Session{
		Token: tokenWithExp(t, time.Now().Add(time.Hour)),
		User:  User{Username: "ash", Email: "ash@example.com"},
	}
	require.NoError(t, store.Save(session))

	loaded := store.Load()
	require.NotNil(t, loaded)
	require.Equal(t, "ash", loaded.User.Username)
	require.True(t, store.Valid())

	token, ok := store.Token()
	require.True(t, ok)
	require.Equal(t, session.Token, token)

	store.Clear()
	require.Nil(t, store.Load())
}

func TestStorePurgesExpiredOnLoad(t *testing.T) {
	repo := memory.NewRepository()
	store := NewStore(repo)

	require.NoError(t, store.Save(&Session{
		Token: tokenWithExp(t, time.Now().Add(-time.Hour)),
		User:  User{Username: "ash"},
	}))

	require.Nil(t, store.Load())
	_, err := repo.Get(storage.RecordAuth, "current")
	require.True(t, errors.Is(err, storage.ErrNotFound), "expired record should be purged")
}

func TestStoreToleratesCorruptRecord(t *testing.T) {
	repo := memory.NewRepository()
	require.NoError(t, repo.Put(storage.RecordAuth, "current", []byte("{not json")))

	store := NewStore(repo)
	require.Nil(t, store.Load())
	_, ok := store.Token()
	require.False(t, ok)
}

func TestStoreSaveNilClears(t *testing.T) {
	store := NewStore(memory.NewRepository())
	require.NoError(t, store.Save(&Session{Token: tokenWithExp(t, time.Now().Add(time.Hour))}))
	require.NoError(t, store.Save(nil))
	require.False(t, store.Valid())
}
