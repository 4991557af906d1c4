package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Shutdown returns a function that gracefully closes the connection pool.
// Use as a shutdown hook during server teardown.
func Shutdown(pool *pgxpool.Pool) func(ctx context.Context) error {
	return func(_ context.Context) error {
		pool.Close()
		return nil
	}
}
