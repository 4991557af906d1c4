package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect establishes a Redis connection with retry and linear backoff.
// Supports both redis:// and rediss:// (TLS) URL schemes.
func Connect(ctx context.Context, cfg Config) (redis.UniversalClient, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	if !strings.HasPrefix(cfg.ConnectionURL, "redis://") && !strings.HasPrefix(cfg.ConnectionURL, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	redisOpts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	redisOpts.PoolSize = cfg.PoolSize
	redisOpts.MinIdleConns = cfg.MinIdleConns
	redisOpts.ConnMaxIdleTime = cfg.MaxConnIdleTime
	redisOpts.ConnMaxLifetime = cfg.MaxConnLifetime
	redisOpts.DialTimeout = cfg.DialTimeout
	redisOpts.ReadTimeout = cfg.ReadTimeout
	redisOpts.WriteTimeout = cfg.WriteTimeout

	attempts := max(cfg.RetryAttempts, 1)
	for i := 0; i < attempts; i++ {
		client := redis.NewClient(redisOpts)

		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}

		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, ErrConnectionFailed
}

// Open connects using defaults for everything but the URL.
// Useful for tests and tools that only have a connection string.
func Open(ctx context.Context, url string) (redis.UniversalClient, error) {
	return Connect(ctx, Config{
		ConnectionURL:   url,
		PoolSize:        10,
		MinIdleConns:    5,
		MaxConnIdleTime: 10 * time.Minute,
		MaxConnLifetime: 30 * time.Minute,
		RetryAttempts:   1,
		RetryInterval:   time.Second,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	})
}
