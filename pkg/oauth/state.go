package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

const (
	// stateKeyPrefix namespaces state records in the shared store.
	stateKeyPrefix = "oauth_state:"

	// DefaultStateTTL bounds how long an issued state stays redeemable.
	DefaultStateTTL = 10 * time.Minute

	stateBytes = 32
)

// GenerateState produces a cryptographically secure, URL-safe random
// state string with 256 bits of entropy. Uniqueness of the value is the
// CSRF guard, so crypto/rand is non-negotiable here.
func GenerateState() string {
	buf := make([]byte, stateBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand is documented to never fail on supported platforms.
		panic(fmt.Sprintf("oauth: crypto/rand failed: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// StoreState writes a state record with an optional payload into the
// state store. A zero ttl uses DefaultStateTTL. The payload travels
// through the redirect round-trip and is handed back by VerifyState.
func (s *Service) StoreState(ctx context.Context, state string, payload map[string]any, ttl time.Duration) error {
	if ttl == 0 {
		ttl = DefaultStateTTL
	}
	return s.states.Set(ctx, stateKeyPrefix+state, payload, ttl)
}

// VerifyState redeems a state value exactly once, returning the payload
// stored alongside it. The record is invalidated as part of the same
// call, so a replayed state always fails with ErrInvalidState. The
// attached detail carries the raw state for server logs; it must never
// be shown to the end user.
func (s *Service) VerifyState(ctx context.Context, state string) (map[string]any, error) {
	payload, err := s.states.Consume(ctx, stateKeyPrefix+state)
	if err != nil {
		return nil, errors.Join(ErrInvalidState, fmt.Errorf("state=%q: %w", state, err))
	}
	return payload, nil
}
