package tokenstore

import "errors"

var (
	// ErrNotFound is returned when no token is stored for the requested account.
	ErrNotFound = errors.New("tokenstore: token not found")

	// ErrMissingProvider is returned when Save is called without a provider tag.
	ErrMissingProvider = errors.New("tokenstore: missing provider")

	// ErrSaveFailed is returned when persisting a token fails.
	ErrSaveFailed = errors.New("tokenstore: failed to save token")
)
