package oauth

import "errors"

var (
	// ErrMissingClientID is returned when the OAuth client ID is not provided.
	ErrMissingClientID = errors.New("oauth: missing client ID")

	// ErrMissingClientSecret is returned when the OAuth client secret is not provided.
	ErrMissingClientSecret = errors.New("oauth: missing client secret")

	// ErrMissingStateStore is returned when the service is constructed without a state store.
	ErrMissingStateStore = errors.New("oauth: missing state store")

	// ErrInvalidState is returned when a state parameter is unknown, expired,
	// or has already been consumed by a previous callback.
	ErrInvalidState = errors.New("oauth: invalid state")

	// ErrTokenExchange is returned when exchanging an authorization code for
	// an access token fails: non-200 status, a provider-reported error in the
	// response body, or a transport failure.
	ErrTokenExchange = errors.New("oauth: token exchange failed")

	// ErrUserInfo is returned when fetching the authenticated user's profile fails.
	ErrUserInfo = errors.New("oauth: failed to fetch user info")
)
