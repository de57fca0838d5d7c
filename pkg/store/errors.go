package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/storebroker-io/storebroker/internal/constants"
)

// Common static errors that can be wrapped with context.
var (
	ErrProductIDRequired      = errors.New("product id is required")
	ErrSubmissionIDRequired   = errors.New("submission id is required")
	ErrFlightIDRequired       = errors.New("flight id is required")
	ErrMarketRequired         = errors.New("market is required")
	ErrListingNotFound        = errors.New("no listing for market")
	ErrNoFileUploadURL        = errors.New("submission has no file upload URL")
	ErrRolloutNotEnabled      = errors.New("submission does not use gradual package rollout")
	ErrMonitorNotifierFailed  = errors.New("notification delivery failed")
	ErrUnknownSubmissionState = errors.New("unknown submission state")
)

// maxBodyFragment bounds the raw body fragment carried by an APIError.
const maxBodyFragment = 512

// AuthError indicates that no usable credential is available. It is fatal
// to the calling operation and never retried.
type AuthError struct {
	Reason      string
	Remediation string
	Err         error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	msg := "authentication failed: " + e.Reason
	if e.Remediation != "" {
		msg += "\n" + e.Remediation
	}

	if e.Err != nil {
		msg += "\n" + e.Err.Error()
	}

	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// ConfigError indicates contradictory or missing configuration. Fatal, not
// retried.
type ConfigError struct {
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Message
}

// APIError represents a non-2xx HTTP response from the service. Transient
// marks statuses in the retryable set; RetriesExhausted marks a transient
// error that survived the full retry budget.
type APIError struct {
	StatusCode       int
	Status           string
	Code             string
	Message          string
	Details          string
	CorrelationID    string
	RequestID        string
	Body             string
	Transient        bool
	RetriesExhausted bool
}

// Error renders the multi-line diagnostic string: status line, parsed
// inner code/message/details when the body was JSON, and the correlation
// id for support diagnosis.
func (e *APIError) Error() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "request failed: %d %s", e.StatusCode, strings.TrimSpace(e.Status))

	if e.RetriesExhausted {
		builder.WriteString(" (retries exhausted)")
	}

	if e.Code != "" {
		builder.WriteString("\ncode: " + e.Code)
	}

	if e.Message != "" {
		builder.WriteString("\nmessage: " + e.Message)
	}

	if e.Details != "" {
		builder.WriteString("\ndetails: " + e.Details)
	}

	if e.Code == "" && e.Message == "" && e.Body != "" {
		builder.WriteString("\nbody: " + e.Body)
	}

	if e.CorrelationID != "" {
		builder.WriteString("\ncorrelation id: " + e.CorrelationID)
	}

	return builder.String()
}

// TransportError represents a connection-level failure (DNS, TLS, timeout).
// Transport failures are terminal: they usually indicate configuration
// problems rather than transient load, so they are never auto-retried.
type TransportError struct {
	Op  string
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the underlying failure was a timeout.
func (e *TransportError) Timeout() bool {
	var netErr net.Error
	if errors.As(e.Err, &netErr) {
		return netErr.Timeout()
	}

	return errors.Is(e.Err, context.DeadlineExceeded)
}

// IsNotFound checks if the error is a 404 from the service.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsTransient checks if the error carries a retryable status code.
func IsTransient(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Transient
	}

	return false
}

// IsRetriesExhausted checks if the error exhausted its retry budget.
func IsRetriesExhausted(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.RetriesExhausted
	}

	return false
}

// IsTimeout checks if the error is a transport-level timeout. The
// submission monitor tolerates these and keeps polling.
func IsTimeout(err error) bool {
	transportErr := &TransportError{}
	if errors.As(err, &transportErr) {
		return transportErr.Timeout()
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return errors.Is(err, context.DeadlineExceeded)
}

// serviceErrorBody mirrors the JSON error payload returned by the service.
type serviceErrorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

// ParseAPIError builds an APIError from a non-2xx response, extracting the
// inner error code/message/details when the body parses as JSON and the
// correlation and request ids from the response headers.
func ParseAPIError(statusCode int, headers http.Header, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode:    statusCode,
		Status:        http.StatusText(statusCode),
		CorrelationID: headers.Get(constants.HeaderCorrelationID),
		RequestID:     headers.Get(constants.HeaderRequestID),
		Body:          trimBodyFragment(body),
	}

	var inner serviceErrorBody

	err := json.Unmarshal(body, &inner)
	if err == nil {
		apiErr.Code = inner.Code
		apiErr.Message = inner.Message

		if len(inner.Details) > 0 && string(inner.Details) != "null" {
			apiErr.Details = trimBodyFragment(inner.Details)
		}
	}

	return apiErr
}

// trimBodyFragment truncates a raw body to a diagnosable fragment.
func trimBodyFragment(body []byte) string {
	fragment := strings.TrimSpace(string(body))
	if len(fragment) > maxBodyFragment {
		fragment = fragment[:maxBodyFragment]
	}

	return fragment
}
