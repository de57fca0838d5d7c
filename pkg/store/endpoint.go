package store

import (
	"strings"

	"github.com/storebroker-io/storebroker/internal/constants"
)

// Environment selects a service environment.
type Environment string

// Known environments.
const (
	// EnvironmentProduction is the public service. The zero value of
	// Environment also resolves to production.
	EnvironmentProduction Environment = "prod"

	// EnvironmentInt is the internal test environment.
	EnvironmentInt Environment = "int"
)

// Endpoint is the result of resolving a Config into a concrete service
// address plus any mandatory extra headers.
type Endpoint struct {
	// BaseURL is the service base, without a trailing slash.
	BaseURL string

	// TokenResource is the resource identifier sent in the token grant.
	TokenResource string

	// ExtraHeaders are attached to every request (tenant selectors in
	// proxy mode).
	ExtraHeaders map[string]string
}

// ResolveEndpoint maps configuration to a base URL and mandatory headers.
// It is a pure function: no I/O, and identical input yields identical
// output. It fails with a ConfigError on contradictory configuration.
func ResolveEndpoint(config *Config) (*Endpoint, error) {
	if config == nil {
		return nil, &ConfigError{Message: "configuration is required"}
	}

	if config.TenantID != "" && config.TenantName != "" {
		return nil, &ConfigError{Message: "TenantID and TenantName are mutually exclusive tenant selectors"}
	}

	if config.ProxyURL != "" {
		if config.Environment != "" {
			return nil, &ConfigError{Message: "ProxyURL and Environment are mutually exclusive; the proxy decides the environment"}
		}

		return resolveProxyEndpoint(config), nil
	}

	switch config.Environment {
	case "", EnvironmentProduction:
		return &Endpoint{
			BaseURL:       constants.ProductionEndpoint,
			TokenResource: constants.ProductionEndpoint,
			ExtraHeaders:  map[string]string{},
		}, nil
	case EnvironmentInt:
		return &Endpoint{
			BaseURL:       constants.IntEndpoint,
			TokenResource: constants.IntEndpoint,
			ExtraHeaders:  map[string]string{},
		}, nil
	default:
		return nil, &ConfigError{Message: "unknown environment: " + string(config.Environment)}
	}
}

// resolveProxyEndpoint builds the proxy-mode endpoint with tenant selector
// headers when a tenant id or name is configured.
func resolveProxyEndpoint(config *Config) *Endpoint {
	headers := map[string]string{}

	if config.TenantID != "" {
		headers[constants.HeaderTenantID] = config.TenantID
	}

	if config.TenantName != "" {
		headers[constants.HeaderTenantName] = config.TenantName
	}

	return &Endpoint{
		BaseURL:      strings.TrimRight(config.ProxyURL, "/"),
		ExtraHeaders: headers,
	}
}
