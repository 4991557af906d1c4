package redis

import (
	"context"
	"io"
)

// Shutdown returns a function that gracefully closes the Redis client.
// Use as a shutdown hook during server teardown.
func Shutdown(client io.Closer) func(ctx context.Context) error {
	return func(_ context.Context) error {
		return client.Close()
	}
}
