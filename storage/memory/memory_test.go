package memory

import (
	"errors"
	"testing"

	"github.com/pikacards/storefront/storage"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	r := NewRepository()

	_, err := r.Get(storage.RecordCart, "current")
	require.True(t, errors.Is(err, storage.ErrNotFound))

	require.NoError(t, r.Put(storage.RecordCart, "current", []byte(`[]`)))
	data, err := r.Get(storage.RecordCart, "current")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(data))

	// Mutating the returned slice must not affect stored data.
	data[0] = 'X'
	data2, err := r.Get(storage.RecordCart, "current")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(data2))

	require.NoError(t, r.Delete(storage.RecordCart, "current"))
	require.True(t, errors.Is(r.Delete(storage.RecordCart, "current"), storage.ErrNotFound))
}

func TestMemoryList(t *testing.T) {
	r := NewRepository()
	require.NoError(t, r.Put(storage.RecordProfile, "ash", []byte(`{}`)))
	require.NoError(t, r.Put(storage.RecordProfile, "brock", []byte(`{}`)))

	ids, err := r.List(storage.RecordProfile)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"ash", "brock"}, ids)
}
