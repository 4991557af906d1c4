// Package db provides PostgreSQL connection utilities.
//
// This package wraps [github.com/jackc/pgx/v5/pgxpool] with
// environment-based configuration, startup retry with backoff, schema
// migrations via [github.com/pressly/goose/v3], a health check closure,
// and a shutdown hook.
//
// # Configuration
//
// All settings are loaded from environment variables:
//
//	DATABASE_URL                 - PostgreSQL connection URL (required)
//	DATABASE_MIGRATIONS_TABLE    - goose bookkeeping table (default: schema_migrations)
//	DATABASE_HEALTHCHECK_PERIOD  - pool health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME  - maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME   - maximum connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS      - startup retry attempts (default: 3)
//	DATABASE_RETRY_INTERVAL      - base retry interval (default: 5s)
//	DATABASE_MAX_OPEN_CONNS      - maximum pool size (default: 10)
//	DATABASE_MIN_CONNS           - minimum idle connections (default: 5)
//
// # Usage
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Shutdown(pool)(ctx)
//
//	if err := db.Migrate(ctx, pool, tokenstore.Migrations, cfg.MigrationsTable, logger); err != nil {
//	    log.Fatal(err)
//	}
package db
