package store

import (
	"context"
	"time"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a store.Client.
//
// # Authentication precedence
//
//  1. ProxyURL: requests are routed through the proxy, which performs
//     authentication itself. A fixed sentinel bearer value is sent and no
//     token endpoint is ever contacted.
//  2. AccessToken: if set, used directly as a static Bearer token.
//  3. ClientID/ClientSecret: uses the OAuth2 client_credentials grant
//     against the identity provider, with TenantID selecting the token
//     endpoint. The resulting token is cached in memory for the process
//     lifetime and refreshed ahead of expiry.
//  4. No credentials: any operation requiring authentication fails with
//     an AuthError carrying remediation guidance.
type Config struct {
	// Environment selects the service environment. Empty means production.
	Environment Environment

	// ProxyURL overrides the endpoint with a user-supplied proxy that
	// performs authentication on the caller's behalf.
	ProxyURL string

	// TenantID is the directory tenant for the client_credentials grant,
	// and the tenant selector header in proxy mode.
	TenantID string

	// TenantName selects a tenant by name in proxy mode. Mutually
	// exclusive with TenantID.
	TenantName string

	// ClientID and ClientSecret are the client-credential pair exchanged
	// for an access token.
	ClientID     string
	ClientSecret string

	// AccessToken, if set, is used directly and never refreshed.
	AccessToken string

	// TokenURL overrides the derived identity provider token endpoint.
	TokenURL string

	// HTTPTimeout is the per-request timeout. Most calls should rely on
	// context deadlines; this bounds a single physical attempt.
	HTTPTimeout time.Duration

	// RetryMax is the maximum number of retries for statuses in
	// RetryableStatuses. Zero selects the default.
	RetryMax int

	// RetryWaitMin is the base backoff between retries. The first retry
	// waits a jittered multiple of this value and each retry doubles it.
	RetryWaitMin time.Duration

	// RetryWaitMax caps the exponential backoff growth.
	RetryWaitMax time.Duration

	// RetryableStatuses is the set of HTTP status codes eligible for
	// automatic retry. Nil selects the default set (429, 503).
	RetryableStatuses []int

	// Debug enables verbose HTTP request/response logging when a Logger
	// is provided.
	Debug bool

	// Logger is an optional structured logger used by the HTTP layer.
	Logger Logger

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// RequestID and CorrelationID are optional client-supplied tracing
	// ids echoed into every request's headers.
	RequestID     string
	CorrelationID string
}

// tokenContextKey carries an explicitly acquired token through a context.
type tokenContextKey struct{}

// WithToken returns a context carrying an explicit bearer token. Requests
// issued with this context use the token as-is and bypass the token
// provider's refresh logic for the life of the call. Batch operations use
// this to share one token across many requests.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext extracts an explicit bearer token set by WithToken.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey{}).(string)

	return token, ok && token != ""
}
