// Package redis provides Redis connection utilities.
//
// This package wraps [github.com/redis/go-redis/v9] with environment-based
// configuration, startup retry with backoff, a health check closure, and a
// shutdown hook.
//
// # Configuration
//
// All settings are loaded from environment variables:
//
//	REDIS_URL                - connection URL, redis:// or rediss:// (required)
//	REDIS_POOL_SIZE          - maximum pool size (default: 10)
//	REDIS_MIN_IDLE_CONNS     - minimum idle connections (default: 5)
//	REDIS_MAX_CONN_IDLE_TIME - maximum connection idle time (default: 10m)
//	REDIS_MAX_CONN_LIFETIME  - maximum connection lifetime (default: 30m)
//	REDIS_RETRY_ATTEMPTS     - startup retry attempts (default: 3)
//	REDIS_RETRY_INTERVAL     - base retry interval (default: 5s)
//	REDIS_DIAL_TIMEOUT       - dial timeout (default: 5s)
//	REDIS_READ_TIMEOUT       - read timeout (default: 3s)
//	REDIS_WRITE_TIMEOUT      - write timeout (default: 3s)
//
// # Usage
//
//	var cfg redis.Config
//	if err := env.Parse(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer redis.Shutdown(client)(ctx)
package redis
