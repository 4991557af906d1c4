package oauth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/antihub/antihub/pkg/oauth"
)

var errNotFound = errors.New("not found")

// fakeStateStore is an in-process StateStore with consume-once semantics.
type fakeStateStore struct {
	mu      sync.Mutex
	entries map[string]map[string]any
	ttls    map[string]time.Duration
	setErr  error
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{
		entries: make(map[string]map[string]any),
		ttls:    make(map[string]time.Duration),
	}
}

func (f *fakeStateStore) Set(_ context.Context, key string, value map[string]any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStateStore) Consume(_ context.Context, key string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.entries[key]
	if !ok {
		return nil, errNotFound
	}
	delete(f.entries, key)
	delete(f.ttls, key)
	return value, nil
}

func newTestService(t *testing.T, cfg oauth.Config, opts ...oauth.Option) *oauth.Service {
	t.Helper()
	if cfg.ClientID == "" {
		cfg.ClientID = "test-id"
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = "test-secret"
	}
	svc, err := oauth.New(cfg, newFakeStateStore(), opts...)
	require.NoError(t, err)
	return svc
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		svc, err := oauth.New(oauth.Config{
			ClientID:     "test-id",
			ClientSecret: "test-secret",
		}, newFakeStateStore())
		require.NoError(t, err)
		require.NotNil(t, svc)
	})

	t.Run("missing client ID", func(t *testing.T) {
		t.Parallel()
		svc, err := oauth.New(oauth.Config{
			ClientSecret: "test-secret",
		}, newFakeStateStore())
		require.ErrorIs(t, err, oauth.ErrMissingClientID)
		require.Nil(t, svc)
	})

	t.Run("missing client secret", func(t *testing.T) {
		t.Parallel()
		svc, err := oauth.New(oauth.Config{
			ClientID: "test-id",
		}, newFakeStateStore())
		require.ErrorIs(t, err, oauth.ErrMissingClientSecret)
		require.Nil(t, svc)
	})

	t.Run("missing state store", func(t *testing.T) {
		t.Parallel()
		svc, err := oauth.New(oauth.Config{
			ClientID:     "test-id",
			ClientSecret: "test-secret",
		}, nil)
		require.ErrorIs(t, err, oauth.ErrMissingStateStore)
		require.Nil(t, svc)
	})
}

func TestService_AuthorizationURL(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, oauth.Config{
		ClientID:     "CID",
		ClientSecret: "test-secret",
		RedirectURL:  "https://example.com/callback",
		AuthorizeURL: "https://github.example.com/login/oauth/authorize",
	})

	t.Run("exact query parameters", func(t *testing.T) {
		t.Parallel()
		u, err := url.Parse(svc.AuthorizationURL("abc", "", "x y"))
		require.NoError(t, err)

		q := u.Query()
		require.Len(t, q, 4)
		require.Equal(t, "CID", q.Get("client_id"))
		require.Equal(t, "https://example.com/callback", q.Get("redirect_uri"))
		require.Equal(t, "abc", q.Get("state"))
		require.Equal(t, "x y", q.Get("scope"))
	})

	t.Run("default scope", func(t *testing.T) {
		t.Parallel()
		u, err := url.Parse(svc.AuthorizationURL("abc", "", ""))
		require.NoError(t, err)
		require.Equal(t, "read:user user:email", u.Query().Get("scope"))
	})

	t.Run("redirect override", func(t *testing.T) {
		t.Parallel()
		u, err := url.Parse(svc.AuthorizationURL("abc", "https://other.example.com/cb", ""))
		require.NoError(t, err)
		require.Equal(t, "https://other.example.com/cb", u.Query().Get("redirect_uri"))
	})

	t.Run("authorize endpoint preserved", func(t *testing.T) {
		t.Parallel()
		u, err := url.Parse(svc.AuthorizationURL("abc", "", ""))
		require.NoError(t, err)
		require.Equal(t, "github.example.com", u.Host)
		require.Equal(t, "/login/oauth/authorize", u.Path)
	})
}

func TestService_ExchangeCode(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "application/json", r.Header.Get("Accept"))
			require.NoError(t, r.ParseForm())
			require.Equal(t, "test-id", r.PostForm.Get("client_id"))
			require.Equal(t, "test-secret", r.PostForm.Get("client_secret"))
			require.Equal(t, "test-code", r.PostForm.Get("code"))
			require.Equal(t, "https://example.com/callback", r.PostForm.Get("redirect_uri"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "t",
				"token_type":   "bearer",
				"expires_in":   3600,
			})
		}))
		defer ts.Close()

		svc := newTestService(t, oauth.Config{
			RedirectURL: "https://example.com/callback",
			TokenURL:    ts.URL,
		}, oauth.WithHTTPClient(ts.Client()))

		token, err := svc.ExchangeCode(context.Background(), "test-code", "")
		require.NoError(t, err)
		require.Equal(t, "t", token.AccessToken)
		require.Equal(t, "bearer", token.TokenType)
		require.NotNil(t, token.ExpiresIn)
		require.EqualValues(t, 3600, *token.ExpiresIn)
		require.Nil(t, token.RefreshToken)
		require.Nil(t, token.Scope)
	})

	t.Run("defaults token type to bearer", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "t"})
		}))
		defer ts.Close()

		svc := newTestService(t, oauth.Config{TokenURL: ts.URL}, oauth.WithHTTPClient(ts.Client()))

		token, err := svc.ExchangeCode(context.Background(), "test-code", "")
		require.NoError(t, err)
		require.Equal(t, "bearer", token.TokenType)
		require.Nil(t, token.ExpiresIn)
	})

	t.Run("non-200 status", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusBadRequest)
		}))
		defer ts.Close()

		svc := newTestService(t, oauth.Config{TokenURL: ts.URL}, oauth.WithHTTPClient(ts.Client()))

		token, err := svc.ExchangeCode(context.Background(), "test-code", "")
		require.ErrorIs(t, err, oauth.ErrTokenExchange)
		require.ErrorContains(t, err, "status=400")
		require.Nil(t, token)
	})

	t.Run("error field in body", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":             "bad_verification_code",
				"error_description": "The code passed is incorrect or expired.",
			})
		}))
		defer ts.Close()

		svc := newTestService(t, oauth.Config{TokenURL: ts.URL}, oauth.WithHTTPClient(ts.Client()))

		token, err := svc.ExchangeCode(context.Background(), "bad-code", "")
		require.ErrorIs(t, err, oauth.ErrTokenExchange)
		require.ErrorContains(t, err, "The code passed is incorrect or expired.")
		require.Nil(t, token)
	})

	t.Run("error field without description", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "bad_verification_code"})
		}))
		defer ts.Close()

		svc := newTestService(t, oauth.Config{TokenURL: ts.URL}, oauth.WithHTTPClient(ts.Client()))

		_, err := svc.ExchangeCode(context.Background(), "bad-code", "")
		require.ErrorIs(t, err, oauth.ErrTokenExchange)
		require.ErrorContains(t, err, "bad_verification_code")
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		client := ts.Client()
		ts.Close() // refuse connections

		svc := newTestService(t, oauth.Config{TokenURL: ts.URL}, oauth.WithHTTPClient(client))

		token, err := svc.ExchangeCode(context.Background(), "test-code", "")
		require.ErrorIs(t, err, oauth.ErrTokenExchange)
		require.Nil(t, token)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer ts.Close()

		svc := newTestService(t, oauth.Config{TokenURL: ts.URL}, oauth.WithHTTPClient(ts.Client()))

		_, err := svc.ExchangeCode(context.Background(), "test-code", "")
		require.ErrorIs(t, err, oauth.ErrTokenExchange)
	})

	t.Run("permissive on missing access token", func(t *testing.T) {
		t.Parallel()

		// A 200 with no error field is a success even without a token;
		// stricter validation would change observable behavior.
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{})
		}))
		defer ts.Close()

		svc := newTestService(t, oauth.Config{TokenURL: ts.URL}, oauth.WithHTTPClient(ts.Client()))

		token, err := svc.ExchangeCode(context.Background(), "test-code", "")
		require.NoError(t, err)
		require.Empty(t, token.AccessToken)
		require.Equal(t, "bearer", token.TokenType)
	})
}

func TestService_UserInfo(t *testing.T) {
	t.Parallel()

	t.Run("normalizes profile", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			require.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": 1,
				"login": "alice",
				"name": "Alice",
				"email": null,
				"avatar_url": "https://avatars.example.com/u/1",
				"bio": "hacker",
				"location": "Lisbon",
				"html_url": "https://github.com/alice",
				"created_at": "2015-04-26T12:00:00Z"
			}`))
		}))
		defer ts.Close()

		svc := newTestService(t, oauth.Config{UserAPIURL: ts.URL}, oauth.WithHTTPClient(ts.Client()))

		user, err := svc.UserInfo(context.Background(), "test-token")
		require.NoError(t, err)
		require.NotNil(t, user.ID)
		require.EqualValues(t, 1, *user.ID)
		require.NotNil(t, user.Username)
		require.Equal(t, "alice", *user.Username)
		require.Nil(t, user.Email)
		require.NotNil(t, user.ProfileURL)
		require.Equal(t, "https://github.com/alice", *user.ProfileURL)
		require.NotNil(t, user.CreatedAt)
		require.Equal(t, 2015, user.CreatedAt.Year())
		require.Equal(t, "github", user.Provider)
	})

	t.Run("absent fields stay nil", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"login":"bob"}`))
		}))
		defer ts.Close()

		svc := newTestService(t, oauth.Config{UserAPIURL: ts.URL}, oauth.WithHTTPClient(ts.Client()))

		user, err := svc.UserInfo(context.Background(), "test-token")
		require.NoError(t, err)
		require.Nil(t, user.ID)
		require.Nil(t, user.Name)
		require.Nil(t, user.Bio)
		require.Nil(t, user.Location)
		require.Nil(t, user.CreatedAt)
		require.Equal(t, "github", user.Provider)
	})

	t.Run("non-200 status", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
		}))
		defer ts.Close()

		svc := newTestService(t, oauth.Config{UserAPIURL: ts.URL}, oauth.WithHTTPClient(ts.Client()))

		user, err := svc.UserInfo(context.Background(), "test-token")
		require.ErrorIs(t, err, oauth.ErrUserInfo)
		require.ErrorContains(t, err, "status=401")
		require.Nil(t, user)
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		client := ts.Client()
		ts.Close()

		svc := newTestService(t, oauth.Config{UserAPIURL: ts.URL}, oauth.WithHTTPClient(client))

		user, err := svc.UserInfo(context.Background(), "test-token")
		require.ErrorIs(t, err, oauth.ErrUserInfo)
		require.Nil(t, user)
	})
}

func TestService_UserEmails(t *testing.T) {
	t.Parallel()

	t.Run("returns email list", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/emails", r.URL.Path)
			require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"email":"alice@example.com","primary":true,"verified":true,"visibility":"public"},
				{"email":"alt@example.com","primary":false,"verified":false}
			]`))
		}))
		defer ts.Close()

		svc := newTestService(t, oauth.Config{UserAPIURL: ts.URL}, oauth.WithHTTPClient(ts.Client()))

		emails := svc.UserEmails(context.Background(), "test-token")
		require.Len(t, emails, 2)
		require.Equal(t, "alice@example.com", emails[0].Email)
		require.True(t, emails[0].Primary)
		require.True(t, emails[0].Verified)
		require.NotNil(t, emails[0].Visibility)
		require.Nil(t, emails[1].Visibility)
	})

	t.Run("server error yields empty list", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer ts.Close()

		svc := newTestService(t, oauth.Config{UserAPIURL: ts.URL}, oauth.WithHTTPClient(ts.Client()))

		require.Empty(t, svc.UserEmails(context.Background(), "test-token"))
	})

	t.Run("transport failure yields empty list", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		client := ts.Client()
		ts.Close()

		svc := newTestService(t, oauth.Config{UserAPIURL: ts.URL}, oauth.WithHTTPClient(client))

		require.Empty(t, svc.UserEmails(context.Background(), "test-token"))
	})

	t.Run("malformed body yields empty list", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer ts.Close()

		svc := newTestService(t, oauth.Config{UserAPIURL: ts.URL}, oauth.WithHTTPClient(ts.Client()))

		require.Empty(t, svc.UserEmails(context.Background(), "test-token"))
	})
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	t.Run("explicit expires_in", func(t *testing.T) {
		t.Parallel()
		expiresIn := int64(3600)
		expiry := oauth.TokenExpiry(&expiresIn)
		require.WithinDuration(t, time.Now().UTC().Add(time.Hour), expiry, 5*time.Second)
	})

	t.Run("nil defaults to one year", func(t *testing.T) {
		t.Parallel()
		expiry := oauth.TokenExpiry(nil)
		require.WithinDuration(t, time.Now().UTC().Add(365*24*time.Hour), expiry, 5*time.Second)
	})
}
