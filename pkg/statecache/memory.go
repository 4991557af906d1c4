package statecache

import (
	"context"
	"sync"
	"time"
)

// entry holds a stored value with its expiration time.
type entry[V any] struct {
	expiresAt time.Time
	value     V
}

// isExpired reports whether the entry has passed its expiration time.
func (e *entry[V]) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// Memory is an in-memory Store with TTL-based expiration, intended for
// tests and single-process development setups. Consume-once atomicity is
// provided by the mutex: the read and the delete happen under one lock.
type Memory[V any] struct {
	items  map[string]*entry[V]
	opts   *memoryOptions
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewMemory creates a new in-memory store.
//
// Example:
//
//	s := statecache.NewMemory[map[string]any](
//	    statecache.WithDefaultTTL(10 * time.Minute),
//	    statecache.WithCleanupInterval(time.Minute),
//	)
//	defer s.Close()
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory[V]{
		items: make(map[string]*entry[V]),
		opts:  o,
		done:  make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// Set stores a value with the given TTL.
// A zero TTL uses the store's configured default.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}

	m.items[key] = &entry[V]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

// Consume atomically reads and deletes a record.
// Returns ErrNotFound for missing, expired, or already consumed keys.
func (m *Memory[V]) Consume(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V

	if m.closed {
		return zero, ErrClosed
	}

	e, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}

	delete(m.items, key)

	if e.isExpired() {
		return zero, ErrNotFound
	}

	return e.value, nil
}

// Close stops the background janitor goroutine and marks the store as closed.
// Close is idempotent.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	close(m.done)

	return nil
}

// janitor periodically removes expired entries.
func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *Memory[V]) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, e := range m.items {
		if now.After(e.expiresAt) {
			delete(m.items, key)
		}
	}
}

var _ Store[any] = (*Memory[any])(nil)
