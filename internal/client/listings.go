package client

import (
	"context"
	"fmt"

	"github.com/storebroker-io/storebroker/internal/http"
	"github.com/storebroker-io/storebroker/pkg/store"
)

// ListingsClientImpl implements store.ListingsClient. Listings are not a
// standalone resource upstream; they live inside the submission document,
// so updates go through a read-modify-write of the whole submission.
type ListingsClientImpl struct {
	httpClient *http.Client
}

// NewListingsClient creates a listings client.
func NewListingsClient(httpClient *http.Client) *ListingsClientImpl {
	return &ListingsClientImpl{httpClient: httpClient}
}

func (c *ListingsClientImpl) getSubmission(ctx context.Context, productID, submissionID string) (*store.Submission, error) {
	path := submissionsPath(productID, "") + "/" + submissionID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var submission store.Submission
	if err := resp.JSON(&submission); err != nil {
		return nil, fmt.Errorf("failed to parse submission: %w", err)
	}

	return &submission, nil
}

// Get retrieves the listing for one market (a BCP-47 tag like "en-us").
func (c *ListingsClientImpl) Get(ctx context.Context, productID, submissionID, market string) (*store.Listing, error) {
	if err := validateSubmissionRef(productID, submissionID); err != nil {
		return nil, err
	}

	if market == "" {
		return nil, store.ErrMarketRequired
	}

	submission, err := c.getSubmission(ctx, productID, submissionID)
	if err != nil {
		return nil, err
	}

	listing, ok := submission.Listings[market]
	if !ok {
		return nil, fmt.Errorf("submission %s, market %q: %w", submissionID, market, store.ErrListingNotFound)
	}

	return &listing, nil
}

// Update replaces the listing for one market and returns the updated
// submission.
func (c *ListingsClientImpl) Update(ctx context.Context, productID, submissionID, market string, listing *store.Listing) (*store.Submission, error) {
	if err := validateSubmissionRef(productID, submissionID); err != nil {
		return nil, err
	}

	if market == "" {
		return nil, store.ErrMarketRequired
	}

	submission, err := c.getSubmission(ctx, productID, submissionID)
	if err != nil {
		return nil, err
	}

	if submission.Listings == nil {
		submission.Listings = make(map[string]store.Listing)
	}

	submission.Listings[market] = *listing

	path := submissionsPath(productID, "") + "/" + submissionID

	resp, err := c.httpClient.Put(ctx, path, submission)
	if err != nil {
		return nil, err
	}

	var updated store.Submission
	if err := resp.JSON(&updated); err != nil {
		return nil, fmt.Errorf("failed to parse submission: %w", err)
	}

	return &updated, nil
}
