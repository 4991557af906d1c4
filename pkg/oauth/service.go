package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// ProviderName identifies GitHub in normalized user records and
	// persisted tokens.
	ProviderName = "github"

	defaultUserAPIURL = "https://api.github.com/user"

	// DefaultScope is requested when the caller does not override it.
	DefaultScope = "read:user user:email"

	// githubAccept is the versioned media type GitHub's REST API expects.
	githubAccept = "application/vnd.github.v3+json"

	defaultTimeout = 30 * time.Second
)

// StateStore persists one-time OAuth state records with a TTL.
// Consume must atomically read and invalidate the record so a state
// value can never be redeemed twice. pkg/statecache implementations
// satisfy this interface.
type StateStore interface {
	Set(ctx context.Context, key string, value map[string]any, ttl time.Duration) error
	Consume(ctx context.Context, key string) (map[string]any, error)
}

// Service drives the server side of GitHub's OAuth2 authorization-code
// flow: anti-forgery state handling, authorization URL construction,
// code-for-token exchange, and profile retrieval.
type Service struct {
	cfg        Config
	states     StateStore
	httpClient *http.Client
	timeout    time.Duration
}

// New creates an OAuth service for GitHub.
// Returns an error if ClientID or ClientSecret is empty, or if no state
// store is provided.
func New(cfg Config, states StateStore, opts ...Option) (*Service, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if cfg.ClientSecret == "" {
		return nil, ErrMissingClientSecret
	}
	if states == nil {
		return nil, ErrMissingStateStore
	}

	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = http.DefaultClient
	}

	return &Service{
		cfg:        cfg.withDefaults(),
		states:     states,
		httpClient: o.httpClient,
		timeout:    o.timeout,
	}, nil
}

// AuthorizationURL builds the provider authorization URL for the given
// state. An empty redirectURI falls back to the configured redirect URL,
// an empty scope falls back to DefaultScope. No network call is made.
func (s *Service) AuthorizationURL(state, redirectURI, scope string) string {
	if redirectURI == "" {
		redirectURI = s.cfg.RedirectURL
	}
	if scope == "" {
		scope = DefaultScope
	}

	params := url.Values{
		"client_id":    {s.cfg.ClientID},
		"redirect_uri": {redirectURI},
		"state":        {state},
		"scope":        {scope},
	}

	return s.cfg.AuthorizeURL + "?" + params.Encode()
}

// ExchangeCode trades an authorization code for an access token.
// A single POST is made to the token endpoint; there is no retry.
// Any failure (non-200 status, provider-reported error field, transport
// error) is returned as ErrTokenExchange with diagnostic detail attached.
func (s *Service) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenData, error) {
	if redirectURI == "" {
		redirectURI = s.cfg.RedirectURL
	}

	form := url.Values{
		"client_id":     {s.cfg.ClientID},
		"client_secret": {s.cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Join(ErrTokenExchange, fmt.Errorf("build token request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// GitHub returns URL-encoded bodies unless JSON is requested explicitly.
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(ErrTokenExchange, fmt.Errorf("token request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(ErrTokenExchange, fmt.Errorf("read token response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Join(ErrTokenExchange, fmt.Errorf("token endpoint returned status=%d body=%q", resp.StatusCode, body))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, errors.Join(ErrTokenExchange, fmt.Errorf("decode token response: %w", err))
	}

	if tr.Error != "" {
		detail := tr.ErrorDescription
		if detail == "" {
			detail = tr.Error
		}
		return nil, errors.Join(ErrTokenExchange, fmt.Errorf("provider error: %s", detail))
	}

	tokenType := tr.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}

	return &TokenData{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    tokenType,
		ExpiresIn:    tr.ExpiresIn,
		Scope:        tr.Scope,
	}, nil
}

// UserInfo fetches the authenticated user's profile and normalizes it
// onto the fixed User schema. Non-200 status, transport, and decode
// failures are returned as ErrUserInfo with diagnostic detail attached.
func (s *Service) UserInfo(ctx context.Context, accessToken string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.UserAPIURL, nil)
	if err != nil {
		return nil, errors.Join(ErrUserInfo, fmt.Errorf("build user request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", githubAccept)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(ErrUserInfo, fmt.Errorf("user request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.Join(ErrUserInfo, fmt.Errorf("user endpoint returned status=%d body=%q", resp.StatusCode, body))
	}

	var gu githubUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, errors.Join(ErrUserInfo, fmt.Errorf("decode user response: %w", err))
	}

	return &User{
		ID:         gu.ID,
		Username:   gu.Login,
		Name:       gu.Name,
		Email:      gu.Email,
		AvatarURL:  gu.AvatarURL,
		Bio:        gu.Bio,
		Location:   gu.Location,
		ProfileURL: gu.HTMLURL,
		CreatedAt:  gu.CreatedAt,
		Provider:   ProviderName,
	}, nil
}

// UserEmails fetches the user's email list from the profile endpoint's
// /emails sub-resource. This call is best effort: every failure, from a
// non-200 status to a transport error, yields an empty list. Callers
// must not rely on it for critical data.
func (s *Service) UserEmails(ctx context.Context, accessToken string) []Email {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.UserAPIURL+"/emails", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", githubAccept)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var emails []Email
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return nil
	}

	return emails
}

// TokenExpiry computes the wall-clock expiry for a token. GitHub OAuth
// tokens normally never expire, so a nil expiresIn maps to one year out.
func TokenExpiry(expiresIn *int64) time.Time {
	seconds := int64(365 * 24 * 3600)
	if expiresIn != nil {
		seconds = *expiresIn
	}
	return time.Now().UTC().Add(time.Duration(seconds) * time.Second)
}

// tokenResponse mirrors the token endpoint's JSON body. The error fields
// are populated when GitHub reports a failure with a 200 status.
type tokenResponse struct {
	AccessToken      string  `json:"access_token"`
	RefreshToken     *string `json:"refresh_token"`
	TokenType        string  `json:"token_type"`
	ExpiresIn        *int64  `json:"expires_in"`
	Scope            *string `json:"scope"`
	Error            string  `json:"error"`
	ErrorDescription string  `json:"error_description"`
}

// githubUser mirrors the subset of GitHub's user profile this service
// normalizes. All fields are optional on the wire.
type githubUser struct {
	ID        *int64     `json:"id"`
	Login     *string    `json:"login"`
	Name      *string    `json:"name"`
	Email     *string    `json:"email"`
	AvatarURL *string    `json:"avatar_url"`
	Bio       *string    `json:"bio"`
	Location  *string    `json:"location"`
	HTMLURL   *string    `json:"html_url"`
	CreatedAt *time.Time `json:"created_at"`
}
