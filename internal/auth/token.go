package auth

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/storebroker-io/storebroker/internal/constants"
)

// Token is an opaque bearer credential with an absolute expiry. Tokens
// live in process memory only and are never persisted.
type Token struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   json.Number `json:"expires_in"`
	Resource    string      `json:"resource,omitempty"`

	// ExpiresAt is the absolute expiry computed from ExpiresIn at
	// acquisition time. Not part of the wire format.
	ExpiresAt time.Time `json:"-"`
}

// Valid reports whether the token can still be handed out. A token inside
// the expiry safety margin is treated as invalid so callers refresh
// proactively instead of racing the deadline.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(constants.TokenExpirationBuffer).Before(t.ExpiresAt)
}

// TokenStore is the process-wide token cache. Reads never observe a
// half-written token; concurrent refreshes are last-writer-wins.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the cached token, or nil.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set replaces the cached token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear drops the cached token. Used by explicit "clear authentication"
// actions.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}
