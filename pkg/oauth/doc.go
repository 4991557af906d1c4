// Package oauth implements the server side of GitHub's OAuth2
// authorization-code flow: anti-forgery state tokens, authorization URL
// construction, code-for-token exchange, and normalized profile retrieval.
//
// # Flow
//
// A login spans three steps driven by the caller:
//
//	state := oauth.GenerateState()
//	if err := svc.StoreState(ctx, state, nil, 0); err != nil {
//		// abort: the state store is the CSRF guard
//	}
//	http.Redirect(w, r, svc.AuthorizationURL(state, "", ""), http.StatusFound)
//
// When the provider redirects back with code and state:
//
//	payload, err := svc.VerifyState(ctx, state) // consume-once, replay-safe
//	token, err := svc.ExchangeCode(ctx, code, "")
//	user, err := svc.UserInfo(ctx, token.AccessToken)
//	emails := svc.UserEmails(ctx, token.AccessToken) // best effort
//
// # State handling
//
// States are 32 random bytes, base64url-encoded, stored in a volatile
// StateStore under an "oauth_state:" key with a 10 minute TTL.
// VerifyState atomically reads and deletes the record, so each state is
// redeemable at most once; a second callback with the same state fails
// with ErrInvalidState and the flow must restart from a fresh state.
//
// # Error Handling
//
// The three flow-terminating failure kinds are sentinel errors carrying
// diagnostic detail via errors.Join:
//
//   - ErrInvalidState: state missing, expired, or replayed
//   - ErrTokenExchange: non-200 status, provider-reported error, or transport failure
//   - ErrUserInfo: non-200 status or transport failure fetching the profile
//
// Use errors.Is to branch; log the joined detail server-side only.
// UserEmails is the deliberate exception: it absorbs every failure into
// an empty list and cannot fail.
//
// # Testing
//
// Point AuthorizeURL/TokenURL/UserAPIURL at an httptest server and
// inject its client with WithHTTPClient.
package oauth
