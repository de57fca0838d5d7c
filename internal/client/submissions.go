package client

import (
	"context"
	"fmt"

	"github.com/storebroker-io/storebroker/internal/constants"
	"github.com/storebroker-io/storebroker/internal/http"
	"github.com/storebroker-io/storebroker/pkg/store"
)

// SubmissionsClientImpl implements store.SubmissionsClient.
type SubmissionsClientImpl struct {
	httpClient *http.Client
	products   store.ProductsClient
	logger     store.Logger
}

// NewSubmissionsClient creates a submissions client.
func NewSubmissionsClient(httpClient *http.Client, products store.ProductsClient, logger store.Logger) *SubmissionsClientImpl {
	return &SubmissionsClientImpl{
		httpClient: httpClient,
		products:   products,
		logger:     logger,
	}
}

// submissionsPath builds the submissions collection path for an
// application or, when flightID is set, one of its flights.
func submissionsPath(productID, flightID string) string {
	if flightID != "" {
		return fmt.Sprintf("%s/applications/%s/flights/%s/submissions", constants.APIVersionPath, productID, flightID)
	}

	return fmt.Sprintf("%s/applications/%s/submissions", constants.APIVersionPath, productID)
}

func validateSubmissionRef(productID, submissionID string) error {
	if productID == "" {
		return store.ErrProductIDRequired
	}

	if submissionID == "" {
		return store.ErrSubmissionIDRequired
	}

	return nil
}

// Create starts a new submission cloned from the last published one. The
// service rejects the call while another submission is pending.
func (c *SubmissionsClientImpl) Create(ctx context.Context, productID string) (*store.Submission, error) {
	if productID == "" {
		return nil, store.ErrProductIDRequired
	}

	resp, err := c.httpClient.Post(ctx, submissionsPath(productID, ""), nil)
	if err != nil {
		return nil, err
	}

	var submission store.Submission
	if err := resp.JSON(&submission); err != nil {
		return nil, fmt.Errorf("failed to parse submission: %w", err)
	}

	return &submission, nil
}

// Get retrieves a submission.
func (c *SubmissionsClientImpl) Get(ctx context.Context, productID, submissionID string) (*store.Submission, error) {
	if err := validateSubmissionRef(productID, submissionID); err != nil {
		return nil, err
	}

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

// Update replaces the pending submission's content wholesale. Partial
// updates are not supported upstream; callers Get, mutate, then Update.
func (c *SubmissionsClientImpl) Update(ctx context.Context, productID string, submission *store.Submission) (*store.Submission, error) {
	if err := validateSubmissionRef(productID, submission.ID); err != nil {
		return nil, err
	}

	path := submissionsPath(productID, "") + "/" + submission.ID

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

// Commit finalizes the submission and sends it into certification.
func (c *SubmissionsClientImpl) Commit(ctx context.Context, productID, submissionID string) (*store.SubmissionStatus, error) {
	if err := validateSubmissionRef(productID, submissionID); err != nil {
		return nil, err
	}

	path := submissionsPath(productID, "") + "/" + submissionID + "/commit"

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var status store.SubmissionStatus
	if err := resp.JSON(&status); err != nil {
		return nil, fmt.Errorf("failed to parse commit status: %w", err)
	}

	return &status, nil
}

// Delete removes a pending submission.
func (c *SubmissionsClientImpl) Delete(ctx context.Context, productID, submissionID string) error {
	if err := validateSubmissionRef(productID, submissionID); err != nil {
		return err
	}

	path := submissionsPath(productID, "") + "/" + submissionID

	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return err
	}

	return nil
}

// Status retrieves the certification status of a submission.
func (c *SubmissionsClientImpl) Status(ctx context.Context, productID, submissionID string) (*store.SubmissionStatus, error) {
	return c.status(ctx, productID, "", submissionID)
}

func (c *SubmissionsClientImpl) status(ctx context.Context, productID, flightID, submissionID string) (*store.SubmissionStatus, error) {
	if err := validateSubmissionRef(productID, submissionID); err != nil {
		return nil, err
	}

	path := submissionsPath(productID, flightID) + "/" + submissionID + "/status"

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var status store.SubmissionStatus
	if err := resp.JSON(&status); err != nil {
		return nil, fmt.Errorf("failed to parse submission status: %w", err)
	}

	return &status, nil
}
