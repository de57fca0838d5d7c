package client

import (
	"context"
	"fmt"

	"github.com/storebroker-io/storebroker/internal/blob"
	"github.com/storebroker-io/storebroker/internal/http"
	"github.com/storebroker-io/storebroker/pkg/store"
)

// PackagesClientImpl implements store.PackagesClient. Like listings,
// packages live inside the submission document; the binary content itself
// goes to the submission's pre-signed upload URL.
type PackagesClientImpl struct {
	httpClient *http.Client
	transferer blob.Transferer
}

// NewPackagesClient creates a packages client.
func NewPackagesClient(httpClient *http.Client, transferer blob.Transferer) *PackagesClientImpl {
	return &PackagesClientImpl{
		httpClient: httpClient,
		transferer: transferer,
	}
}

// Update replaces the submission's package set and returns the updated
// submission. Existing packages to retain must be carried over with
// FileStatus None or PendingDelete as appropriate.
func (c *PackagesClientImpl) Update(ctx context.Context, productID, submissionID string, packages []store.ApplicationPackage) (*store.Submission, error) {
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

	submission.ApplicationPackages = packages

	resp, err = c.httpClient.Put(ctx, path, &submission)
	if err != nil {
		return nil, err
	}

	var updated store.Submission
	if err := resp.JSON(&updated); err != nil {
		return nil, fmt.Errorf("failed to parse submission: %w", err)
	}

	return &updated, nil
}

// Upload transfers a package zip to the submission's pre-signed upload
// URL. The submission must still be pending; published submissions have
// no upload URL.
func (c *PackagesClientImpl) Upload(ctx context.Context, productID, submissionID, zipPath string) error {
	if err := validateSubmissionRef(productID, submissionID); err != nil {
		return err
	}

	path := submissionsPath(productID, "") + "/" + submissionID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return err
	}

	var submission store.Submission
	if err := resp.JSON(&submission); err != nil {
		return fmt.Errorf("failed to parse submission: %w", err)
	}

	if submission.FileUploadURL == "" {
		return fmt.Errorf("submission %s: %w", submissionID, store.ErrNoFileUploadURL)
	}

	if err := c.transferer.Upload(ctx, zipPath, submission.FileUploadURL); err != nil {
		return fmt.Errorf("failed to upload package %s: %w", zipPath, err)
	}

	return nil
}
