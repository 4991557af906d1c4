package statecache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Store is a volatile key-value store for one-time records.
//
// It differs from a general-purpose cache in one way: the read operation
// is Consume, which atomically removes the record as it returns it. A key
// can therefore be redeemed at most once, which is exactly the contract a
// CSRF state token needs. Concurrent consumers racing on the same key get
// at most one winner.
//
// TTL semantics for Set:
//   - Positive duration: record expires after this duration
//   - Zero: use the store's configured default TTL
type Store[V any] interface {
	// Set stores a value under key with the given TTL.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Consume atomically reads and deletes a record.
	// Returns ErrNotFound if the key does not exist, has expired, or was
	// already consumed.
	Consume(ctx context.Context, key string) (V, error)

	// Close releases resources (stops background goroutines, etc.).
	Close() error
}

// Marshaler serializes and deserializes values for storage backends that
// require byte representation (e.g., Redis).
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

type jsonMarshaler[V any] struct{}

func (jsonMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}
