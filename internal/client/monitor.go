package client

import (
	"context"
	"fmt"
	"time"

	"github.com/storebroker-io/storebroker/internal/constants"
	"github.com/storebroker-io/storebroker/pkg/store"
)

// Monitor polls the submission until it reaches a terminal state and
// returns the final snapshot. Each observed state or substate transition
// is delivered to the configured notifier; delivery failures are logged
// and polling continues. Transient timeouts on a poll are tolerated and
// retried on the next tick; any other error aborts monitoring. Cancel the
// context to stop early.
func (c *SubmissionsClientImpl) Monitor(ctx context.Context, productID, submissionID string, opts *store.MonitorOptions) (*store.SubmissionSnapshot, error) {
	if err := validateSubmissionRef(productID, submissionID); err != nil {
		return nil, err
	}

	if opts == nil {
		opts = &store.MonitorOptions{}
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = constants.DefaultMonitorInterval
	}

	// Human-readable context is fetched once up front; a failure here is
	// cosmetic, not fatal.
	productName, flightName := c.monitorContext(ctx, productID, opts.FlightID)

	previousState := store.StateNone
	previousSubstate := store.SubstateNone

	// The publish mode decides whether ReadyToPublish ends monitoring; it
	// is fixed at commit time, so one lookup suffices.
	publishMode := store.PublishModeImmediate
	if mode := c.publishMode(ctx, productID, opts.FlightID, submissionID); mode != "" {
		publishMode = mode
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := c.status(ctx, productID, opts.FlightID, submissionID)
		if err != nil {
			if store.IsTimeout(err) {
				c.logDebug("submission poll timed out, will retry", map[string]interface{}{
					"productId":    productID,
					"submissionId": submissionID,
				})
			} else {
				return nil, fmt.Errorf("failed to poll submission %s: %w", submissionID, err)
			}
		} else {
			if !status.Status.Known() {
				return nil, fmt.Errorf("%w: %q", store.ErrUnknownSubmissionState, status.Status)
			}

			snapshot := &store.SubmissionSnapshot{
				ProductID:            productID,
				FlightID:             opts.FlightID,
				SubmissionID:         submissionID,
				State:                status.Status,
				Substate:             status.Substatus,
				Errors:               status.StatusDetails.Errors,
				Warnings:             status.StatusDetails.Warnings,
				CertificationReports: status.StatusDetails.CertificationReports,
				TargetPublishMode:    publishMode,
			}

			if status.Status != previousState || status.Substatus != previousSubstate {
				c.notify(ctx, opts, &store.StatusChange{
					ProductName:          productName,
					FlightName:           flightName,
					SubmissionID:         submissionID,
					PreviousState:        previousState,
					PreviousSubstate:     previousSubstate,
					State:                status.Status,
					Substate:             status.Substatus,
					Errors:               status.StatusDetails.Errors,
					CertificationReports: status.StatusDetails.CertificationReports,
					Recipients:           opts.Recipients,
				})

				previousState = status.Status
				previousSubstate = status.Substatus
			}

			if status.Status.Terminal(publishMode) {
				return snapshot, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// monitorContext resolves the product and flight display names used in
// notifications. Lookup failures degrade to the raw identifiers.
func (c *SubmissionsClientImpl) monitorContext(ctx context.Context, productID, flightID string) (string, string) {
	productName := productID

	if app, err := c.products.Get(ctx, productID); err == nil {
		productName = app.PrimaryName
	} else {
		c.logDebug("failed to resolve product name", map[string]interface{}{
			"productId": productID,
			"error":     err.Error(),
		})
	}

	flightName := flightID

	if flightID != "" {
		path := fmt.Sprintf("%s/applications/%s/flights/%s", constants.APIVersionPath, productID, flightID)

		if resp, err := c.httpClient.Get(ctx, path, nil); err == nil {
			var flight store.Flight
			if err := resp.JSON(&flight); err == nil {
				flightName = flight.FriendlyName
			}
		}
	}

	return productName, flightName
}

// publishMode fetches the submission's target publish mode, which decides
// whether ReadyToPublish ends monitoring. An empty return means the
// lookup failed and the previous mode should stand.
func (c *SubmissionsClientImpl) publishMode(ctx context.Context, productID, flightID, submissionID string) store.TargetPublishMode {
	path := submissionsPath(productID, flightID) + "/" + submissionID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return ""
	}

	var submission store.Submission
	if err := resp.JSON(&submission); err != nil {
		return ""
	}

	return submission.TargetPublishMode
}

func (c *SubmissionsClientImpl) notify(ctx context.Context, opts *store.MonitorOptions, change *store.StatusChange) {
	if opts.Notifier == nil {
		return
	}

	if err := opts.Notifier.Notify(ctx, change); err != nil {
		c.logWarn("status notification failed", map[string]interface{}{
			"submissionId": change.SubmissionID,
			"error":        err.Error(),
		})
	}
}

func (c *SubmissionsClientImpl) logDebug(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

func (c *SubmissionsClientImpl) logWarn(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, fields)
	}
}
