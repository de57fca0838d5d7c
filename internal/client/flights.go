package client

import (
	"context"
	"fmt"

	"github.com/storebroker-io/storebroker/internal/constants"
	"github.com/storebroker-io/storebroker/internal/http"
	"github.com/storebroker-io/storebroker/pkg/store"
)

// FlightsClientImpl implements store.FlightsClient.
type FlightsClientImpl struct {
	httpClient *http.Client
}

// NewFlightsClient creates a flights client.
func NewFlightsClient(httpClient *http.Client) *FlightsClientImpl {
	return &FlightsClientImpl{httpClient: httpClient}
}

func flightsPath(productID string) string {
	return fmt.Sprintf("%s/applications/%s/listflights", constants.APIVersionPath, productID)
}

func flightPath(productID, flightID string) string {
	return fmt.Sprintf("%s/applications/%s/flights/%s", constants.APIVersionPath, productID, flightID)
}

// Create creates a new package flight.
func (c *FlightsClientImpl) Create(ctx context.Context, productID string, request *store.FlightCreateRequest) (*store.Flight, error) {
	if productID == "" {
		return nil, store.ErrProductIDRequired
	}

	path := fmt.Sprintf("%s/applications/%s/flights", constants.APIVersionPath, productID)

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, err
	}

	var flight store.Flight
	if err := resp.JSON(&flight); err != nil {
		return nil, fmt.Errorf("failed to parse flight: %w", err)
	}

	return &flight, nil
}

// Get retrieves a single flight.
func (c *FlightsClientImpl) Get(ctx context.Context, productID, flightID string) (*store.Flight, error) {
	if productID == "" {
		return nil, store.ErrProductIDRequired
	}

	if flightID == "" {
		return nil, store.ErrFlightIDRequired
	}

	resp, err := c.httpClient.Get(ctx, flightPath(productID, flightID), nil)
	if err != nil {
		return nil, err
	}

	var flight store.Flight
	if err := resp.JSON(&flight); err != nil {
		return nil, fmt.Errorf("failed to parse flight: %w", err)
	}

	return &flight, nil
}

// List retrieves one page of the application's flights.
func (c *FlightsClientImpl) List(ctx context.Context, productID string, params *store.QueryParams) (*store.PageResult[store.Flight], error) {
	if productID == "" {
		return nil, store.ErrProductIDRequired
	}

	return fetchPage[store.Flight](ctx, c.httpClient, flightsPath(productID), params)
}

// ListAll retrieves every flight of the application.
func (c *FlightsClientImpl) ListAll(ctx context.Context, productID string) ([]store.Flight, error) {
	if productID == "" {
		return nil, store.ErrProductIDRequired
	}

	return fetchAll[store.Flight](ctx, c.httpClient, flightsPath(productID), false)
}

// Delete removes a flight and any submissions pending against it.
func (c *FlightsClientImpl) Delete(ctx context.Context, productID, flightID string) error {
	if productID == "" {
		return store.ErrProductIDRequired
	}

	if flightID == "" {
		return store.ErrFlightIDRequired
	}

	if _, err := c.httpClient.Delete(ctx, flightPath(productID, flightID)); err != nil {
		return err
	}

	return nil
}
