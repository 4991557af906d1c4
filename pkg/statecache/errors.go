package statecache

import "errors"

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a key does not exist, has expired,
	// or was already consumed.
	ErrNotFound = errors.New("statecache: record not found")

	// ErrClosed is returned when an operation is attempted on a closed store.
	ErrClosed = errors.New("statecache: closed")

	// ErrMarshal is returned when value serialization fails.
	ErrMarshal = errors.New("statecache: failed to marshal value")

	// ErrUnmarshal is returned when value deserialization fails.
	ErrUnmarshal = errors.New("statecache: failed to unmarshal value")
)
