// Package statecache provides a volatile key-value store for one-time
// records such as OAuth CSRF state tokens.
//
// The store's defining operation is Consume: an atomic read-and-delete
// that guarantees a key can be redeemed at most once. Two backends are
// provided:
//
//   - Redis: production backend; Consume maps to GETDEL so the
//     once-only guarantee holds across processes.
//   - Memory: mutex-guarded map with a janitor goroutine for tests and
//     single-process development.
//
// # Usage
//
//	client := redis.MustOpen(ctx, os.Getenv("REDIS_URL"))
//	states := statecache.NewRedis[map[string]any](client, nil,
//	    statecache.WithPrefix("antihub"),
//	    statecache.WithRedisDefaultTTL(10*time.Minute),
//	)
//
//	err := states.Set(ctx, "oauth_state:"+state, payload, 0)
//
//	payload, err := states.Consume(ctx, "oauth_state:"+state)
//	if errors.Is(err, statecache.ErrNotFound) {
//	    // expired, never stored, or already redeemed
//	}
//
// # Error Handling
//
//   - ErrNotFound: key missing, expired, or already consumed
//   - ErrClosed: operation on a closed store
//   - ErrMarshal / ErrUnmarshal: value serialization failed
package statecache
