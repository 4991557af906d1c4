package statecache

import "time"

// RedisOption configures the Redis store.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix     string
	defaultTTL time.Duration
}

func defaultRedisOptions() *redisOptions {
	return &redisOptions{
		defaultTTL: 10 * time.Minute,
		prefix:     "",
	}
}

// WithRedisDefaultTTL sets the expiration used when Set is called with a
// zero TTL.
// Default: 10 minutes.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.defaultTTL = d
	}
}

// WithPrefix sets a key prefix for all store operations.
// Keys are stored as "{prefix}:{key}". This is useful for namespacing
// when multiple stores share the same Redis instance.
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}
