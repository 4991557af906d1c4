// Package handler exposes the GitHub login flow over HTTP.
//
// Two endpoints span a full login:
//
//	GET /auth/github/login    - issue and store a state, redirect to GitHub
//	GET /auth/github/callback - verify state, exchange code, fetch profile,
//	                            persist the token, respond with the profile
//
// A failed verification or exchange terminates the flow; the client must
// start over from /auth/github/login to get a fresh state.
package handler
