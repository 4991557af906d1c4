package tokenstore

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrations holds the schema migrations for this package.
// Apply with db.Migrate at startup.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Token is a durably stored OAuth access token associated with a
// provider account. One row exists per (provider, account) pair; saving
// again after a re-login replaces the credentials in place.
type Token struct {
	ID           uuid.UUID
	Provider     string
	AccountID    int64
	AccessToken  string
	RefreshToken *string
	TokenType    string
	Scope        *string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository persists OAuth tokens in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a token repository over the given connection pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const saveQuery = `
INSERT INTO oauth_tokens (id, provider, account_id, access_token, refresh_token, token_type, scope, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (provider, account_id) DO UPDATE SET
	access_token  = EXCLUDED.access_token,
	refresh_token = EXCLUDED.refresh_token,
	token_type    = EXCLUDED.token_type,
	scope         = EXCLUDED.scope,
	expires_at    = EXCLUDED.expires_at,
	updated_at    = now()
RETURNING id, created_at, updated_at`

// Save upserts a token for (provider, account). The returned Token
// carries the persisted ID and timestamps; on re-login the existing
// row's ID and created_at are preserved.
func (r *Repository) Save(ctx context.Context, token Token) (Token, error) {
	if token.Provider == "" {
		return Token{}, ErrMissingProvider
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.TokenType == "" {
		token.TokenType = "bearer"
	}

	err := r.pool.QueryRow(ctx, saveQuery,
		token.ID,
		token.Provider,
		token.AccountID,
		token.AccessToken,
		token.RefreshToken,
		token.TokenType,
		token.Scope,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt, &token.UpdatedAt)
	if err != nil {
		return Token{}, errors.Join(ErrSaveFailed, err)
	}

	return token, nil
}

const getQuery = `
SELECT id, provider, account_id, access_token, refresh_token, token_type, scope, expires_at, created_at, updated_at
FROM oauth_tokens
WHERE provider = $1 AND account_id = $2`

// Get returns the stored token for (provider, account).
// Returns ErrNotFound when no token is stored.
func (r *Repository) Get(ctx context.Context, provider string, accountID int64) (Token, error) {
	var token Token
	err := r.pool.QueryRow(ctx, getQuery, provider, accountID).Scan(
		&token.ID,
		&token.Provider,
		&token.AccountID,
		&token.AccessToken,
		&token.RefreshToken,
		&token.TokenType,
		&token.Scope,
		&token.ExpiresAt,
		&token.CreatedAt,
		&token.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Token{}, ErrNotFound
		}
		return Token{}, err
	}

	return token, nil
}

// Delete removes the stored token for (provider, account).
// Deleting an absent token is not an error.
func (r *Repository) Delete(ctx context.Context, provider string, accountID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM oauth_tokens WHERE provider = $1 AND account_id = $2`, provider, accountID)
	return err
}
