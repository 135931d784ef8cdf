package store

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// exerciseStore runs the Store contract against any backend.
func exerciseStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("MissingKey", func(t *testing.T) {
		value, found, err := st.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, value)
	})

	t.Run("SetGet", func(t *testing.T) {
		require.NoError(t, st.Set(ctx, "helpMe_spots", []byte(`[{"id":"s1"}]`)))

		value, found, err := st.Get(ctx, "helpMe_spots")
		require.NoError(t, err)
		assert.True(t, found)
		assert.JSONEq(t, `[{"id":"s1"}]`, string(value))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, st.Set(ctx, "helpMe_appName", []byte("Help Me")))
		require.NoError(t, st.Set(ctx, "helpMe_appName", []byte("Maadi Helpers")))

		value, found, err := st.Get(ctx, "helpMe_appName")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Maadi Helpers", string(value))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, st.Set(ctx, "gone", []byte("x")))
		require.NoError(t, st.Delete(ctx, "gone"))

		_, found, err := st.Get(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "helpme.db")
	st, err := NewSQLiteStore(path, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	exerciseStore(t, st)
	assert.Equal(t, path, st.Path())
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "helpme.db")
	ctx := context.Background()

	st, err := NewSQLiteStore(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, "helpMe_users", []byte(`[{"username":"alice"}]`)))
	require.NoError(t, st.Close())

	st, err = NewSQLiteStore(path, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	value, found, err := st.Get(ctx, "helpMe_users")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"username":"alice"}]`, string(value))
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	st := NewRedisStore(client, "helpme")
	exerciseStore(t, st)

	t.Run("KeysArePrefixed", func(t *testing.T) {
		require.NoError(t, st.Set(context.Background(), "helpMe_chat", []byte("[]")))
		assert.True(t, mr.Exists("helpme:helpMe_chat"))
	})
}

func TestMemoryStore(t *testing.T) {
	st := NewMemoryStore()
	t.Cleanup(func() { _ = st.Close() })

	exerciseStore(t, st)

	t.Run("ValueIsCopied", func(t *testing.T) {
		ctx := context.Background()
		buf := []byte("original")
		require.NoError(t, st.Set(ctx, "copy", buf))
		buf[0] = 'X'

		value, _, err := st.Get(ctx, "copy")
		require.NoError(t, err)
		assert.Equal(t, "original", string(value))
	})
}

// failingStore errors on every call, standing in for a dead backend.
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("backend down")
}
func (failingStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("backend down")
}
func (failingStore) Delete(ctx context.Context, key string) error { return errors.New("backend down") }
func (failingStore) Close() error                                 { return nil }

func TestFailoverStore(t *testing.T) {
	ctx := context.Background()

	t.Run("MirrorsWritesIntoFallback", func(t *testing.T) {
		primary := NewMemoryStore()
		fallback := NewMemoryStore()
		st := NewFailoverStore(primary, fallback, testLogger())

		require.NoError(t, st.Set(ctx, "k", []byte("v")))

		value, found, err := fallback.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "v", string(value))
	})

	t.Run("ServesFallbackWhenPrimaryDies", func(t *testing.T) {
		fallback := NewMemoryStore()
		require.NoError(t, fallback.Set(ctx, "k", []byte("stale-but-served")))

		st := NewFailoverStore(failingStore{}, fallback, testLogger())

		value, found, err := st.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "stale-but-served", string(value))

		// Writes keep working against the fallback.
		require.NoError(t, st.Set(ctx, "k2", []byte("v2")))
		value, found, err = st.Get(ctx, "k2")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "v2", string(value))
	})
}
