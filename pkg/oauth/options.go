package oauth

import (
	"net/http"
	"time"
)

// Option configures the OAuth service.
type Option func(*options)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
}

// WithHTTPClient sets a custom HTTP client for provider requests.
// This is useful for testing with httptest servers or injecting
// custom transports.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTimeout overrides the per-request timeout applied to provider calls.
// Default: 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}
