// Package tokenstore persists OAuth access tokens in PostgreSQL.
//
// Tokens are keyed by (provider, account_id) so a returning user's
// re-login replaces the stored credentials instead of accumulating rows.
// The schema lives in the embedded Migrations FS; apply it with
// db.Migrate at startup.
//
// # Usage
//
//	repo := tokenstore.New(pool)
//
//	saved, err := repo.Save(ctx, tokenstore.Token{
//	    Provider:    oauth.ProviderName,
//	    AccountID:   accountID,
//	    AccessToken: token.AccessToken,
//	    TokenType:   token.TokenType,
//	    Scope:       token.Scope,
//	    ExpiresAt:   oauth.TokenExpiry(token.ExpiresIn),
//	})
package tokenstore
