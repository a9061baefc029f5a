package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), RedisOptions{Addr: mr.Addr()}, time.Hour, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	s, _ := newTestRedisStore(t)
	ctx := context.Background()

	_, ok := s.Get(ctx, "https://example.com/compound/702")
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "https://example.com/compound/702", map[string]string{"name": "ethanol"}))

	data, ok := s.Get(ctx, "https://example.com/compound/702")
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"ethanol"}`, string(data))
}

func TestRedisStoreSetAppliesTTL(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "key", "value"))

	mr.FastForward(2 * time.Hour)

	_, ok := s.Get(ctx, "key")
	assert.False(t, ok, "entry should expire once its TTL lapses")
}

func TestRedisStoreDelete(t *testing.T) {
	s, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "key", "value"))
	require.NoError(t, s.Delete(ctx, "key"))

	_, ok := s.Get(ctx, "key")
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	assert.NoError(t, s.Delete(ctx, "key"))
}

func TestRedisStoreClearLeavesForeignKeys(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "one", "1"))
	require.NoError(t, s.Set(ctx, "two", "2"))
	require.NoError(t, mr.Set("other:app:key", "keep"))

	require.NoError(t, s.Clear(ctx))

	_, ok := s.Get(ctx, "one")
	assert.False(t, ok)
	_, ok = s.Get(ctx, "two")
	assert.False(t, ok)
	assert.True(t, mr.Exists("other:app:key"), "keys outside the cache namespace should survive")
}

func TestRedisStoreClearExpiredIsNoOp(t *testing.T) {
	s, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "key", "value"))
	assert.Zero(t, s.ClearExpired(ctx))

	_, ok := s.Get(ctx, "key")
	assert.True(t, ok)
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	_, err := NewRedisStore(context.Background(), RedisOptions{Addr: "127.0.0.1:1"}, time.Hour, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewRedisStore(context.Background(), RedisOptions{}, time.Hour, zerolog.Nop())
	assert.Error(t, err)
}
