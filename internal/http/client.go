package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/storebroker-io/storebroker/internal/auth"
	"github.com/storebroker-io/storebroker/internal/constants"
	"github.com/storebroker-io/storebroker/pkg/store"
)

// maxBackoffShift bounds the exponent of the backoff doubling so the
// shift cannot overflow on pathological retry counts.
const maxBackoffShift = 16

// Logger interface for the HTTP layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request describes one logical HTTP call against the service. It is
// immutable once constructed; retries reuse its fields but never mutate
// them.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
	// Headers are additional request headers.
	Headers map[string]string
	// Token, when set, is used verbatim as the bearer credential and the
	// token provider is bypassed for the life of this call.
	Token string
	// Description is a human-readable label used in debug logs.
	Description string
}

// Response is the envelope of the final physical attempt: status, body
// bytes, selected diagnostic headers, and elapsed wall time.
type Response struct {
	StatusCode    int
	Headers       http.Header
	Body          []byte
	RequestID     string
	CorrelationID string
	Location      string
	RetryAfter    time.Duration
	Elapsed       time.Duration
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v interface{}) error {
	err := json.Unmarshal(r.Body, v)
	if err != nil {
		return fmt.Errorf("parsing response body: %w", err)
	}

	return nil
}

// Client issues logical HTTP requests with bearer authentication, bounded
// retries with jittered exponential backoff, and response classification.
type Client struct {
	baseURL       string
	tokenManager  auth.TokenManager
	retryClient   *retryablehttp.Client
	logger        Logger
	debug         bool
	userAgent     string
	extraHeaders  map[string]string
	retryStatuses map[int]struct{}
	requestID     string
	correlationID string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response debug logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig tunes the retry budget and backoff window.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryClient.RetryMax = retryMax
		c.retryClient.RetryWaitMin = waitMin
		c.retryClient.RetryWaitMax = waitMax
	}
}

// WithRetryStatuses replaces the set of status codes eligible for
// automatic retry.
func WithRetryStatuses(statuses ...int) Option {
	return func(c *Client) {
		c.retryStatuses = make(map[int]struct{}, len(statuses))
		for _, status := range statuses {
			c.retryStatuses[status] = struct{}{}
		}
	}
}

// WithExtraHeaders attaches endpoint-specific headers (tenant selectors
// in proxy mode) to every request.
func WithExtraHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.extraHeaders = headers
	}
}

// WithTimeout bounds a single physical attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.retryClient.HTTPClient.Timeout = timeout
	}
}

// WithTracingIDs sets client-supplied request/correlation ids sent with
// every request.
func WithTracingIDs(requestID, correlationID string) Option {
	return func(c *Client) {
		c.requestID = requestID
		c.correlationID = correlationID
	}
}

// NewClient creates an HTTP client for the given service base URL. A nil
// token manager sends unauthenticated requests.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokenManager: tokenManager,
		retryClient:  retryClient,
		userAgent:    constants.ClientName,
		retryStatuses: map[int]struct{}{
			http.StatusTooManyRequests:    {},
			http.StatusServiceUnavailable: {},
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	// One correlation id spans the client's lifetime so the service can
	// group all its requests; callers may pin their own via options.
	if client.correlationID == "" {
		client.correlationID = uuid.NewString()
	}

	retryClient.CheckRetry = client.checkRetry
	retryClient.Backoff = backoff
	retryClient.HTTPClient.Transport = &tokenTransport{
		base:         retryClient.HTTPClient.Transport,
		tokenManager: tokenManager,
	}

	return client
}

// Do issues one logical request, retrying transient statuses with
// exponential backoff, and returns the response envelope of the final
// attempt. Non-2xx outcomes are returned as a typed *store.APIError
// alongside the envelope.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"description": req.Description,
		})
	}

	started := time.Now()

	httpResp, doErr := c.retryClient.Do(httpReq)
	if httpResp == nil && doErr == nil {
		doErr = errors.New("no response")
	}
	if httpResp == nil {
		return nil, classifyTransportFailure(req.Method, httpReq.URL.String(), doErr)
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &store.TransportError{Op: req.Method, URL: httpReq.URL.String(), Err: err}
	}

	resp := &Response{
		StatusCode:    httpResp.StatusCode,
		Headers:       httpResp.Header,
		Body:          body,
		RequestID:     httpResp.Header.Get(constants.HeaderRequestID),
		CorrelationID: httpResp.Header.Get(constants.HeaderCorrelationID),
		Location:      httpResp.Header.Get("Location"),
		RetryAfter:    parseRetryAfter(httpResp.Header),
		Elapsed:       time.Since(started),
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
			"elapsed_ms":  resp.Elapsed.Milliseconds(),
		})
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return resp, nil
	}

	apiErr := store.ParseAPIError(resp.StatusCode, httpResp.Header, body)

	_, transient := c.retryStatuses[resp.StatusCode]
	apiErr.Transient = transient
	// A transient status only reaches the caller once the retry budget
	// is spent; checkRetry keeps retrying it otherwise.
	apiErr.RetriesExhausted = transient

	return resp, apiErr
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// buildRequest assembles the physical request: full URL, JSON body, and
// bearer/tracing/tenant headers.
func (c *Client) buildRequest(ctx context.Context, req *Request) (*retryablehttp.Request, error) {
	fullURL := c.resolveURL(req.Path)

	if len(req.Query) > 0 {
		separator := "?"
		if strings.Contains(fullURL, "?") {
			separator = "&"
		}

		fullURL += separator + req.Query.Encode()
	}

	var rawBody interface{}

	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		rawBody = payload
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(constants.HeaderClientName, constants.ClientName)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	requestID := c.requestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	httpReq.Header.Set(constants.HeaderRequestID, requestID)

	if c.correlationID != "" {
		httpReq.Header.Set(constants.HeaderCorrelationID, c.correlationID)
	}

	for key, value := range c.extraHeaders {
		httpReq.Header.Set(key, value)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	// An explicit token bypasses the token provider for every attempt
	// of this call.
	token := req.Token
	if token == "" {
		if ctxToken, ok := store.TokenFromContext(ctx); ok {
			token = ctxToken
		}
	}

	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	return httpReq, nil
}

// resolveURL joins a path fragment with the base URL. Absolute URLs
// (server-supplied next-links) pass through unchanged.
func (c *Client) resolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

// checkRetry retries only statuses in the configured retryable set.
// Transport-level failures are terminal: they usually indicate
// configuration problems rather than transient load.
func (c *Client) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return false, err
	}

	if resp == nil {
		return false, nil
	}

	_, retryable := c.retryStatuses[resp.StatusCode]

	return retryable, nil
}

// backoff computes the wait before the next attempt: a jittered
// exponential with the server's Retry-After hint honored when larger.
// The jitter factor is uniform in [1, 2), so attempt n sleeps in
// [min*2^n, min*2^(n+1)) and successive delays never decrease.
func backoff(waitMin, waitMax time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if attemptNum > maxBackoffShift {
		attemptNum = maxBackoffShift
	}

	base := waitMin << uint(attemptNum)
	delay := time.Duration(float64(base) * (1 + rand.Float64()))

	if resp != nil {
		if hint := parseRetryAfter(resp.Header); hint > delay {
			delay = hint
		}
	}

	if delay > waitMax {
		delay = waitMax
	}

	return delay
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(headers http.Header) time.Duration {
	value := headers.Get("Retry-After")
	if value == "" {
		return 0
	}

	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}

	return time.Duration(seconds) * time.Second
}

// classifyTransportFailure distinguishes credential failures surfaced
// through the transport from genuine connection-level failures.
func classifyTransportFailure(method, fullURL string, err error) error {
	authErr := &store.AuthError{}
	if errors.As(err, &authErr) {
		return authErr
	}

	return &store.TransportError{Op: method, URL: fullURL, Err: err}
}

// tokenTransport injects a fresh bearer token on every physical attempt,
// so a token that expires mid-retry-loop is re-acquired transparently.
// Requests that already carry an Authorization header pass through
// untouched.
type tokenTransport struct {
	base         http.RoundTripper
	tokenManager auth.TokenManager
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") != "" || t.tokenManager == nil {
		return t.base.RoundTrip(req)
	}

	token, err := t.tokenManager.GetToken(req.Context())
	if err != nil {
		return nil, err
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)

	return t.base.RoundTrip(clone)
}
