// Package client implements the store.Client façade over the submission
// REST API.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/storebroker-io/storebroker/internal/auth"
	"github.com/storebroker-io/storebroker/internal/blob"
	"github.com/storebroker-io/storebroker/internal/constants"
	"github.com/storebroker-io/storebroker/internal/http"
	"github.com/storebroker-io/storebroker/pkg/store"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)

// Client implements the store.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	endpoint     *store.Endpoint
	logger       store.Logger

	// Resource clients
	products    store.ProductsClient
	submissions store.SubmissionsClient
	flights     store.FlightsClient
	listings    store.ListingsClient
	packages    store.PackagesClient
	rollout     store.RolloutClient
}

// New creates a client from configuration: resolves the endpoint, selects
// a token manager per the credential precedence, and wires the HTTP
// layer.
func New(ctx context.Context, config *store.Config) (*Client, error) {
	endpoint, err := store.ResolveEndpoint(config)
	if err != nil {
		return nil, err
	}

	tokenManager := createTokenManager(config, endpoint)
	httpOpts := createHTTPClientOptions(config, endpoint)
	httpClient := http.NewClient(endpoint.BaseURL, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		endpoint:     endpoint,
		logger:       config.Logger,
	}

	client.initializeResourceClients(blob.NewSASTransferer())

	return client, nil
}

// NewWithTokenManager creates a client with a custom token manager.
func NewWithTokenManager(config *store.Config, tokenManager auth.TokenManager) (*Client, error) {
	endpoint, err := store.ResolveEndpoint(config)
	if err != nil {
		return nil, err
	}

	httpOpts := createHTTPClientOptions(config, endpoint)
	httpClient := http.NewClient(endpoint.BaseURL, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		endpoint:     endpoint,
		logger:       config.Logger,
	}

	client.initializeResourceClients(blob.NewSASTransferer())

	return client, nil
}

// createTokenManager selects the token manager per credential precedence:
// proxy mode, static token, then client credentials.
func createTokenManager(config *store.Config, endpoint *store.Endpoint) auth.TokenManager {
	if config.ProxyURL != "" {
		return auth.ProxyTokenManager{}
	}

	if config.AccessToken != "" {
		return auth.NewStaticTokenManager(config.AccessToken)
	}

	tokenURL := config.TokenURL
	if tokenURL == "" {
		tokenURL = fmt.Sprintf(constants.ProductionTokenURL, config.TenantID)
	}

	return auth.NewClientCredentialsTokenManager(&auth.ClientCredentialsConfig{
		TokenURL:     tokenURL,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Resource:     endpoint.TokenResource,
	})
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *store.Config, endpoint *store.Endpoint) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if len(config.RetryableStatuses) > 0 {
		httpOpts = append(httpOpts, http.WithRetryStatuses(config.RetryableStatuses...))
	}

	if len(endpoint.ExtraHeaders) > 0 {
		httpOpts = append(httpOpts, http.WithExtraHeaders(endpoint.ExtraHeaders))
	}

	if config.RequestID != "" || config.CorrelationID != "" {
		httpOpts = append(httpOpts, http.WithTracingIDs(config.RequestID, config.CorrelationID))
	}

	return httpOpts
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients(transferer blob.Transferer) {
	products := NewProductsClient(c.httpClient)
	c.products = products
	c.submissions = NewSubmissionsClient(c.httpClient, products, c.logger)
	c.flights = NewFlightsClient(c.httpClient)
	c.listings = NewListingsClient(c.httpClient)
	c.packages = NewPackagesClient(c.httpClient, transferer)
	c.rollout = NewRolloutClient(c.httpClient)
}

// Products implements store.Client.Products.
func (c *Client) Products() store.ProductsClient {
	return c.products
}

// Submissions implements store.Client.Submissions.
func (c *Client) Submissions() store.SubmissionsClient {
	return c.submissions
}

// Flights implements store.Client.Flights.
func (c *Client) Flights() store.FlightsClient {
	return c.flights
}

// Listings implements store.Client.Listings.
func (c *Client) Listings() store.ListingsClient {
	return c.listings
}

// Packages implements store.Client.Packages.
func (c *Client) Packages() store.PackagesClient {
	return c.packages
}

// Rollout implements store.Client.Rollout.
func (c *Client) Rollout() store.RolloutClient {
	return c.rollout
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// ClearAuthentication drops any cached token. The next authenticated call
// acquires a fresh one.
func (c *Client) ClearAuthentication() {
	if manager, ok := c.tokenManager.(*auth.ClientCredentialsTokenManager); ok {
		manager.Clear()
	}
}
