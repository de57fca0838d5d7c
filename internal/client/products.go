package client

import (
	"context"
	"fmt"

	"github.com/storebroker-io/storebroker/internal/constants"
	"github.com/storebroker-io/storebroker/internal/http"
	"github.com/storebroker-io/storebroker/pkg/store"
)

// ProductsClientImpl implements store.ProductsClient.
type ProductsClientImpl struct {
	httpClient *http.Client
}

// NewProductsClient creates a products client.
func NewProductsClient(httpClient *http.Client) *ProductsClientImpl {
	return &ProductsClientImpl{httpClient: httpClient}
}

// Get retrieves a single application by product ID.
func (c *ProductsClientImpl) Get(ctx context.Context, productID string) (*store.Application, error) {
	if productID == "" {
		return nil, store.ErrProductIDRequired
	}

	path := fmt.Sprintf("%s/applications/%s", constants.APIVersionPath, productID)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var app store.Application
	if err := resp.JSON(&app); err != nil {
		return nil, fmt.Errorf("failed to parse application: %w", err)
	}

	return &app, nil
}

// List retrieves one page of the account's applications.
func (c *ProductsClientImpl) List(ctx context.Context, params *store.QueryParams) (*store.PageResult[store.Application], error) {
	path := constants.APIVersionPath + "/applications"

	return fetchPage[store.Application](ctx, c.httpClient, path, params)
}

// ListAll retrieves every application in the account, following
// continuations until the set is exhausted.
func (c *ProductsClientImpl) ListAll(ctx context.Context) ([]store.Application, error) {
	path := constants.APIVersionPath + "/applications"

	return fetchAll[store.Application](ctx, c.httpClient, path, false)
}
