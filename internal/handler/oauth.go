package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/antihub/antihub/pkg/oauth"
	"github.com/antihub/antihub/pkg/tokenstore"
)

// TokenSaver persists tokens obtained from a completed login.
// *tokenstore.Repository satisfies this interface.
type TokenSaver interface {
	Save(ctx context.Context, token tokenstore.Token) (tokenstore.Token, error)
}

// OAuth serves the two HTTP endpoints of the GitHub login flow.
type OAuth struct {
	svc    *oauth.Service
	tokens TokenSaver
	log    *slog.Logger
}

// NewOAuth creates the OAuth handler.
func NewOAuth(svc *oauth.Service, tokens TokenSaver, log *slog.Logger) *OAuth {
	return &OAuth{svc: svc, tokens: tokens, log: log}
}

// Mount registers the login routes on the router.
func (h *OAuth) Mount(r chi.Router) {
	r.Get("/auth/github/login", h.Login)
	r.Get("/auth/github/callback", h.Callback)
}

// Login starts a flow: issues a state, stores it, and redirects the
// browser to GitHub's consent page. An optional ?next= parameter rides
// along in the state payload and is returned after the callback.
func (h *OAuth) Login(w http.ResponseWriter, r *http.Request) {
	state := oauth.GenerateState()

	var payload map[string]any
	if next := r.URL.Query().Get("next"); next != "" {
		payload = map[string]any{"next": next}
	}

	// The state store is the CSRF guard: if it is down, the flow must
	// not proceed.
	if err := h.svc.StoreState(r.Context(), state, payload, 0); err != nil {
		h.log.Error("failed to store oauth state", "error", err)
		respondError(w, http.StatusServiceUnavailable, "login is temporarily unavailable")
		return
	}

	http.Redirect(w, r, h.svc.AuthorizationURL(state, "", ""), http.StatusFound)
}

type callbackResponse struct {
	User   *oauth.User   `json:"user"`
	Emails []oauth.Email `json:"emails,omitempty"`
	Next   string        `json:"next,omitempty"`
}

// Callback finishes a flow: verifies the one-time state, exchanges the
// code, fetches the profile, and persists the token. Error responses
// carry generic messages only; diagnostic detail goes to the log.
func (h *OAuth) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if errCode := q.Get("error"); errCode != "" {
		h.log.Warn("provider returned error on callback",
			"error", errCode,
			"description", q.Get("error_description"),
		)
		respondError(w, http.StatusBadRequest, "authorization was denied")
		return
	}

	state := q.Get("state")
	code := q.Get("code")
	if state == "" || code == "" {
		respondError(w, http.StatusBadRequest, "missing state or code")
		return
	}

	payload, err := h.svc.VerifyState(ctx, state)
	if err != nil {
		h.log.Warn("oauth state verification failed", "error", err)
		respondError(w, http.StatusBadRequest, "login session is invalid or has expired")
		return
	}

	token, err := h.svc.ExchangeCode(ctx, code, "")
	if err != nil {
		h.log.Error("oauth code exchange failed", "error", err)
		respondError(w, http.StatusBadGateway, "login with GitHub failed")
		return
	}

	user, err := h.svc.UserInfo(ctx, token.AccessToken)
	if err != nil {
		h.log.Error("oauth user info fetch failed", "error", err)
		respondError(w, http.StatusBadGateway, "login with GitHub failed")
		return
	}

	// The service is deliberately permissive about absent profile
	// fields; the account id is required here to key the stored token.
	if user.ID == nil {
		h.log.Error("provider profile has no account id")
		respondError(w, http.StatusBadGateway, "login with GitHub failed")
		return
	}

	if _, err := h.tokens.Save(ctx, tokenstore.Token{
		Provider:     user.Provider,
		AccountID:    *user.ID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Scope:        token.Scope,
		ExpiresAt:    oauth.TokenExpiry(token.ExpiresIn),
	}); err != nil {
		h.log.Error("failed to persist oauth token", "error", err)
		respondError(w, http.StatusInternalServerError, "login could not be completed")
		return
	}

	resp := callbackResponse{
		User:   user,
		Emails: h.svc.UserEmails(ctx, token.AccessToken),
	}
	if next, ok := payload["next"].(string); ok {
		resp.Next = next
	}

	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
