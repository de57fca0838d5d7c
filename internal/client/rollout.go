package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/storebroker-io/storebroker/internal/http"
	"github.com/storebroker-io/storebroker/pkg/store"
)

// RolloutClientImpl implements store.RolloutClient.
type RolloutClientImpl struct {
	httpClient *http.Client
}

// NewRolloutClient creates a rollout client.
func NewRolloutClient(httpClient *http.Client) *RolloutClientImpl {
	return &RolloutClientImpl{httpClient: httpClient}
}

// Get retrieves the rollout policy of a submission.
func (c *RolloutClientImpl) Get(ctx context.Context, productID, submissionID string) (*store.PackageRollout, error) {
	if err := validateSubmissionRef(productID, submissionID); err != nil {
		return nil, err
	}

	path := submissionsPath(productID, "") + "/" + submissionID + "/packagerollout"

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	return parseRollout(resp)
}

// SetPercentage moves the rollout to the given percentage of users. The
// submission must have been committed with rollout enabled.
func (c *RolloutClientImpl) SetPercentage(ctx context.Context, productID, submissionID string, percentage float64) (*store.PackageRollout, error) {
	if err := validateSubmissionRef(productID, submissionID); err != nil {
		return nil, err
	}

	path := submissionsPath(productID, "") + "/" + submissionID + "/updatepackagerolloutpercentage"
	query := url.Values{"percentage": []string{strconv.FormatFloat(percentage, 'f', -1, 64)}}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method:      "POST",
		Path:        path,
		Query:       query,
		Description: "update rollout percentage",
	})
	if err != nil {
		return nil, err
	}

	return parseRollout(resp)
}

// Halt stops the rollout; users on the rollout packages fall back to the
// fallback submission's packages.
func (c *RolloutClientImpl) Halt(ctx context.Context, productID, submissionID string) (*store.PackageRollout, error) {
	return c.action(ctx, productID, submissionID, "haltpackagerollout")
}

// Finalize completes the rollout and ships the packages to all users.
func (c *RolloutClientImpl) Finalize(ctx context.Context, productID, submissionID string) (*store.PackageRollout, error) {
	return c.action(ctx, productID, submissionID, "finalizepackagerollout")
}

func (c *RolloutClientImpl) action(ctx context.Context, productID, submissionID, verb string) (*store.PackageRollout, error) {
	if err := validateSubmissionRef(productID, submissionID); err != nil {
		return nil, err
	}

	path := submissionsPath(productID, "") + "/" + submissionID + "/" + verb

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	return parseRollout(resp)
}

func parseRollout(resp *http.Response) (*store.PackageRollout, error) {
	var rollout store.PackageRollout
	if err := resp.JSON(&rollout); err != nil {
		return nil, fmt.Errorf("failed to parse rollout: %w", err)
	}

	return &rollout, nil
}
