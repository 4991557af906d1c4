package statecache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by Redis. Values are serialized with the
// configured Marshaler (default: JSON). Consume maps to GETDEL, so the
// read-and-delete is atomic on the server and concurrent consumers of
// the same key get at most one winner even across processes.
type Redis[V any] struct {
	client    redis.UniversalClient
	opts      *redisOptions
	marshaler Marshaler[V]
}

// NewRedis creates a new Redis-backed store.
// The client should be obtained from pkg/redis.Open or pkg/redis.MustOpen.
//
// An optional Marshaler can be provided to customize serialization.
// If nil, JSON serialization is used.
//
// Example:
//
//	client := redis.MustOpen(ctx, os.Getenv("REDIS_URL"))
//	s := statecache.NewRedis[map[string]any](client, nil,
//	    statecache.WithPrefix("antihub"),
//	    statecache.WithRedisDefaultTTL(10 * time.Minute),
//	)
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], opts ...RedisOption) *Redis[V] {
	o := defaultRedisOptions()
	for _, opt := range opts {
		opt(o)
	}

	if m == nil {
		m = jsonMarshaler[V]{}
	}

	return &Redis[V]{
		client:    client,
		opts:      o,
		marshaler: m,
	}
}

// Set stores a value in Redis with the given TTL.
// A zero TTL uses the store's configured default.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.marshaler.Marshal(value)
	if err != nil {
		return err
	}

	if ttl == 0 {
		ttl = r.opts.defaultTTL
	}

	return r.client.Set(ctx, r.prefixedKey(key), data, ttl).Err()
}

// Consume atomically reads and deletes a record via GETDEL.
// Returns ErrNotFound if the key does not exist or has expired.
func (r *Redis[V]) Consume(ctx context.Context, key string) (V, error) {
	var zero V

	data, err := r.client.GetDel(ctx, r.prefixedKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}

	return r.marshaler.Unmarshal(data)
}

// Close is a no-op for Redis. The client lifecycle is managed separately
// by the caller (via pkg/redis.Shutdown).
func (r *Redis[V]) Close() error {
	return nil
}

// prefixedKey returns the full Redis key with prefix.
func (r *Redis[V]) prefixedKey(key string) string {
	if r.opts.prefix == "" {
		return key
	}
	return r.opts.prefix + ":" + key
}

var _ Store[any] = (*Redis[any])(nil)
