package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// TokenRequestTimeout is the timeout for token endpoint requests.
	TokenRequestTimeout = 15 * time.Second

	// UploadTimeout is used for package blob transfers.
	UploadTimeout = 10 * time.Minute
)

// Retry configuration defaults.
const (
	// DefaultRetryMax is the default maximum number of retries after the
	// initial attempt.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the base backoff. The first retry waits a
	// jittered value in [DefaultRetryWaitMin, 2*DefaultRetryWaitMin) and
	// each subsequent retry doubles it.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax caps the exponential backoff growth.
	DefaultRetryWaitMax = 60 * time.Second
)

// Token lifecycle.
const (
	// TokenExpirationBuffer is the safety margin before token expiry.
	// A token inside this window is treated as expired and refreshed.
	TokenExpirationBuffer = 90 * time.Second

	// ProxySentinelToken is handed out in proxy mode. The proxy performs
	// authentication itself and ignores the bearer value.
	ProxySentinelToken = "PROXY"
)

// Submission monitoring.
const (
	// DefaultMonitorInterval is the sleep between submission status polls.
	DefaultMonitorInterval = 60 * time.Second

	// QuickPollInterval is used by tests for fast polling.
	QuickPollInterval = 10 * time.Millisecond
)

// Pagination defaults.
const (
	// DefaultPageSize is the default `top` value for list requests.
	DefaultPageSize = 100

	// MaxPages bounds pagination loops against malformed server responses.
	MaxPages = 1000
)

// Concurrency and batching limits.
const (
	// DefaultConcurrencyLimit limits concurrent batch operations.
	DefaultConcurrencyLimit = 3
)

// Wire protocol headers.
const (
	// HeaderClientName identifies this client to the service.
	HeaderClientName = "MS-ClientName"

	// HeaderRequestID carries a client-supplied request id for tracing.
	HeaderRequestID = "MS-RequestId"

	// HeaderCorrelationID carries a correlation id echoed by the service.
	HeaderCorrelationID = "MS-CorrelationId"

	// HeaderTenantID selects a tenant when calling through a proxy.
	HeaderTenantID = "TenantId"

	// HeaderTenantName selects a tenant by name when calling through a proxy.
	HeaderTenantName = "TenantName"

	// ClientName is the value sent in HeaderClientName.
	ClientName = "storebroker"
)

// Service endpoints.
const (
	// ProductionEndpoint is the public submission API endpoint.
	ProductionEndpoint = "https://manage.devcenter.microsoft.com"

	// IntEndpoint is the internal test environment endpoint.
	IntEndpoint = "https://manage.devcenter.microsoft-int.com"

	// ProductionTokenURL is the identity provider token endpoint template.
	// The single %s is the tenant id.
	ProductionTokenURL = "https://login.microsoftonline.com/%s/oauth2/token"

	// APIVersionPath is the versioned base path for all resources.
	APIVersionPath = "/v1.0/my"
)

// Output formats.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// Display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"
)
