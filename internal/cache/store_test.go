package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, maxAge time.Duration) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), maxAge, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestNewFileStore(t *testing.T) {
	t.Run("creates directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "cache")
		store, err := NewFileStore(dir, DefaultMaxAge, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, dir, store.Dir())

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("empty directory rejected", func(t *testing.T) {
		_, err := NewFileStore("", DefaultMaxAge, zerolog.Nop())
		assert.ErrorIs(t, err, ErrEmptyDirectory)
	})

	t.Run("unusable directory is fatal", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

		_, err := NewFileStore(filepath.Join(blocker, "cache"), DefaultMaxAge, zerolog.Nop())
		assert.Error(t, err)
	})
}

func TestFileStoreGetSet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, DefaultMaxAge)

	t.Run("miss before set", func(t *testing.T) {
		_, ok := store.Get(ctx, "never-written")
		assert.False(t, ok)
	})

	t.Run("round trip", func(t *testing.T) {
		value := map[string]string{"name": "ethanol"}
		require.NoError(t, store.Set(ctx, "http://example/a", value))

		raw, ok := store.Get(ctx, "http://example/a")
		require.True(t, ok)

		var decoded map[string]string
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, value, decoded)
	})

	t.Run("overwrite replaces value", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k", "first"))
		require.NoError(t, store.Set(ctx, "k", "second"))

		raw, ok := store.Get(ctx, "k")
		require.True(t, ok)
		assert.JSONEq(t, `"second"`, string(raw))
	})

	t.Run("distinct keys are independent", func(t *testing.T) {
		keys := []string{"water", "ethanol", "64-17-5", "http://example/b?q=1", "http://example/b?q=2"}
		for i, k := range keys {
			require.NoError(t, store.Set(ctx, k, i))
		}
		for i, k := range keys {
			raw, ok := store.Get(ctx, k)
			require.True(t, ok, "key %q", k)

			var got int
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, i, got)
		}
	})

	t.Run("unserializable value fails softly", func(t *testing.T) {
		err := store.Set(ctx, "bad", make(chan int))
		assert.Error(t, err)

		_, ok := store.Get(ctx, "bad")
		assert.False(t, ok)
	})
}

func TestFileStoreExpiry(t *testing.T) {
	ctx := context.Background()

	t.Run("zero max age expires immediately", func(t *testing.T) {
		store := newTestStore(t, 0)
		require.NoError(t, store.Set(ctx, "k", 1))
		time.Sleep(10 * time.Millisecond)

		_, ok := store.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("expired entry stays on disk", func(t *testing.T) {
		store := newTestStore(t, 0)
		require.NoError(t, store.Set(ctx, "k", 1))
		time.Sleep(10 * time.Millisecond)

		_, ok := store.Get(ctx, "k")
		require.False(t, ok)

		// Lazy expiry: Get does not reclaim the file.
		_, err := os.Stat(store.entryPath("k"))
		assert.NoError(t, err)
	})

	t.Run("fresh entry survives", func(t *testing.T) {
		store := newTestStore(t, time.Hour)
		require.NoError(t, store.Set(ctx, "k", 1))

		_, ok := store.Get(ctx, "k")
		assert.True(t, ok)
	})
}

func TestFileStoreCorruptEntry(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, DefaultMaxAge)

	require.NoError(t, store.Set(ctx, "k", map[string]int{"a": 1}))
	require.NoError(t, os.WriteFile(store.entryPath("k"), []byte("{not json"), 0600))

	// Corrupt storage reads as a miss, never an error.
	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)

	// And Get leaves the corrupt file in place.
	_, err := os.Stat(store.entryPath("k"))
	assert.NoError(t, err)
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, DefaultMaxAge)

	require.NoError(t, store.Set(ctx, "a", 1))
	require.NoError(t, store.Set(ctx, "b", 2))

	require.NoError(t, store.Delete(ctx, "a"))

	_, ok := store.Get(ctx, "a")
	assert.False(t, ok)

	// Other entries are unaffected.
	_, ok = store.Get(ctx, "b")
	assert.True(t, ok)

	t.Run("absent key is a no-op", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "a"))
	})
}

func TestFileStoreClear(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, DefaultMaxAge)

	keys := []string{"a", "b", "c"}
	for _, k := range keys {
		require.NoError(t, store.Set(ctx, k, k))
	}

	require.NoError(t, store.Clear(ctx))

	for _, k := range keys {
		_, ok := store.Get(ctx, k)
		assert.False(t, ok, "key %q", k)
	}

	count, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFileStoreClearExpired(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing stale", func(t *testing.T) {
		store := newTestStore(t, time.Hour)
		require.NoError(t, store.Set(ctx, "k", 1))

		assert.Zero(t, store.ClearExpired(ctx))

		// Entry remains retrievable.
		_, ok := store.Get(ctx, "k")
		assert.True(t, ok)
	})

	t.Run("removes only stale entries", func(t *testing.T) {
		store := newTestStore(t, time.Hour)
		require.NoError(t, store.Set(ctx, "fresh", 1))

		stale, err := json.Marshal(Entry{
			Timestamp: unixSeconds(time.Now().Add(-2 * time.Hour)),
			Data:      json.RawMessage(`2`),
		})
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(store.entryPath("stale"), stale, 0600))

		assert.Equal(t, 1, store.ClearExpired(ctx))

		_, ok := store.Get(ctx, "fresh")
		assert.True(t, ok)
		_, ok = store.Get(ctx, "stale")
		assert.False(t, ok)
	})

	t.Run("reclaims corrupt entries", func(t *testing.T) {
		store := newTestStore(t, time.Hour)
		require.NoError(t, os.WriteFile(store.entryPath("junk"), []byte("garbage"), 0600))

		assert.Equal(t, 1, store.ClearExpired(ctx))

		_, err := os.Stat(store.entryPath("junk"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("ignores foreign files", func(t *testing.T) {
		store := newTestStore(t, time.Hour)
		require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "README.txt"), []byte("hi"), 0600))

		assert.Zero(t, store.ClearExpired(ctx))
	})
}

func TestFileStoreStats(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, DefaultMaxAge)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, store.Set(ctx, k, k))
	}

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Positive(t, size)
}
