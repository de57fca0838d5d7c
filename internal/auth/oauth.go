package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/storebroker-io/storebroker/internal/constants"
	"github.com/storebroker-io/storebroker/pkg/store"
)

// Static errors for err113 compliance.
var (
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
	ErrProxyTokenCannotRefresh  = errors.New("proxy mode has no token to refresh")
)

// TokenManager obtains a current bearer token. Implementations must be
// safe for concurrent use.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
	SetToken(token string, expiresAt time.Time)
}

// ClientCredentialsConfig configures the OAuth2 client_credentials grant.
type ClientCredentialsConfig struct {
	// TokenURL is the identity provider token endpoint.
	TokenURL string

	// ClientID and ClientSecret are the cached client credentials.
	ClientID     string
	ClientSecret string

	// Resource is the audience for the issued token (the service base
	// URL).
	Resource string
}

// ClientCredentialsTokenManager exchanges client credentials for access
// tokens and caches them for the process session.
type ClientCredentialsTokenManager struct {
	config     *ClientCredentialsConfig
	store      *TokenStore
	httpClient *http.Client

	// refreshMu serializes refreshes so concurrent expired callers do
	// not stampede the token endpoint.
	refreshMu sync.Mutex
}

// NewClientCredentialsTokenManager creates a token manager for the
// client_credentials grant.
func NewClientCredentialsTokenManager(config *ClientCredentialsConfig) *ClientCredentialsTokenManager {
	return &ClientCredentialsTokenManager{
		config: config,
		store:  NewTokenStore(),
		httpClient: &http.Client{
			Timeout: constants.TokenRequestTimeout,
		},
	}
}

// GetToken returns a valid access token, refreshing if necessary. The hot
// path is a cache read with no network call.
func (m *ClientCredentialsTokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if token.Valid() {
		return token.AccessToken, nil
	}

	err := m.RefreshToken(ctx)
	if err != nil {
		return "", err
	}

	return m.store.Get().AccessToken, nil
}

// RefreshToken forces a token exchange and replaces the cached token.
func (m *ClientCredentialsTokenManager) RefreshToken(ctx context.Context) error {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	// Another caller may have refreshed while we waited on the lock.
	if m.store.Get().Valid() {
		return nil
	}

	if m.config.ClientID == "" || m.config.ClientSecret == "" {
		return &store.AuthError{
			Reason:      "no client credentials cached",
			Remediation: "run 'sb login' with --client-id and --tenant-id, or set SB_CLIENT_ID, SB_CLIENT_SECRET and SB_TENANT_ID",
		}
	}

	token, err := m.requestToken(ctx)
	if err != nil {
		return err
	}

	m.store.Set(token)

	return nil
}

// SetToken manually sets the access token.
func (m *ClientCredentialsTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

// Clear drops the cached token.
func (m *ClientCredentialsTokenManager) Clear() {
	m.store.Clear()
}

// Store exposes the token cache for inspection in tests.
func (m *ClientCredentialsTokenManager) Store() *TokenStore {
	return m.store
}

// requestToken performs the form-encoded client_credentials POST and
// computes the token's absolute expiry.
func (m *ClientCredentialsTokenManager) requestToken(ctx context.Context) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", m.config.ClientID)
	form.Set("client_secret", m.config.ClientSecret)
	form.Set("resource", m.config.Resource)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, &store.AuthError{
			Reason: "token endpoint unreachable",
			Err:    err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseTokenError(resp.StatusCode, body)
	}

	var token Token

	err = json.Unmarshal(body, &token)
	if err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	if seconds, err := token.ExpiresIn.Int64(); err == nil && seconds > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(seconds) * time.Second)
	} else {
		// No usable expiry in the response: mark the token already
		// expired so the next call exchanges again instead of caching it
		// for the process lifetime.
		token.ExpiresAt = time.Now()
	}

	return &token, nil
}

// tokenErrorBody mirrors the identity provider's error payload.
type tokenErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func parseTokenError(statusCode int, body []byte) error {
	var inner tokenErrorBody

	reason := fmt.Sprintf("token endpoint returned %d", statusCode)

	err := json.Unmarshal(body, &inner)
	if err == nil && inner.Error != "" {
		reason = fmt.Sprintf("%s: %s: %s", reason, inner.Error, inner.ErrorDescription)
	}

	return &store.AuthError{
		Reason:      reason,
		Remediation: "verify the cached client id/secret with 'sb login', and that the client has access to the developer account",
	}
}

// ProxyTokenManager is used in proxy mode. The proxy performs
// authentication itself, so a fixed sentinel token is handed out with no
// network call.
type ProxyTokenManager struct{}

// GetToken implements TokenManager.
func (ProxyTokenManager) GetToken(ctx context.Context) (string, error) {
	return constants.ProxySentinelToken, nil
}

// RefreshToken implements TokenManager.
func (ProxyTokenManager) RefreshToken(ctx context.Context) error {
	return ErrProxyTokenCannotRefresh
}

// SetToken implements TokenManager.
func (ProxyTokenManager) SetToken(token string, expiresAt time.Time) {}

// StaticTokenManager provides a caller-supplied token verbatim.
type StaticTokenManager struct {
	token string
}

// NewStaticTokenManager creates a token manager around a fixed token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken implements TokenManager.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, nil
}

// RefreshToken implements TokenManager.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return ErrStaticTokenCannotRefresh
}

// SetToken implements TokenManager.
func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}
