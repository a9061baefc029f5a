package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisKeyPrefix namespaces chemsafe entries in a shared Redis instance.
const redisKeyPrefix = "chemsafe:cache:"

// RedisOptions configures the Redis cache backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore is a cache backend on Redis, for setups where several hosts
// share one scrape cache. Expiry is delegated to Redis TTLs, so the expiry
// sweep has nothing to do here.
type RedisStore struct {
	client *redis.Client
	maxAge time.Duration
	logger zerolog.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed cache. The connection is verified
// up front: like an unusable cache directory, an unreachable Redis is a
// fatal configuration problem rather than a miss.
func NewRedisStore(ctx context.Context, opts RedisOptions, maxAge time.Duration, logger zerolog.Logger) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}

	logger.Debug().Str("addr", opts.Addr).Dur("max_age", maxAge).Msg("redis cache initialized")
	return &RedisStore{
		client: client,
		maxAge: maxAge,
		logger: logger,
	}, nil
}

// Get retrieves the value stored under key, or reports a miss.
func (s *RedisStore) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	data, err := s.client.Get(ctx, redisKeyPrefix+Digest(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("key", key).Msg("redis cache read failed")
		}
		return nil, false
	}

	s.logger.Debug().Str("key", key).Msg("cache hit")
	return data, true
}

// Set stores value under key with the configured max age as its TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache serialization failed")
		return fmt.Errorf("serializing cache entry: %w", err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+Digest(key), data, s.maxAge).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("redis cache write failed")
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for key if present.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+Digest(key)).Err(); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Clear removes every chemsafe entry, leaving other keys in the database
// untouched. Entries are found with SCAN so a shared instance with a large
// keyspace is never blocked on the sweep.
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("removing cache entry %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scanning cache entries: %w", err)
	}
	return nil
}

// ClearExpired is a no-op for Redis: stale entries are evicted by the
// server once their TTL lapses.
func (s *RedisStore) ClearExpired(context.Context) int {
	return 0
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
