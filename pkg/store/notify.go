package store

import (
	"context"
	"fmt"
	"strings"
)

// StatusChange describes one observed submission state transition, plus
// the human-readable context fetched once at monitor start.
type StatusChange struct {
	ProductName  string
	FlightName   string
	SubmissionID string

	PreviousState    SubmissionState
	PreviousSubstate SubmissionSubstate
	State            SubmissionState
	Substate         SubmissionSubstate

	Errors               []StatusDetail
	CertificationReports []CertificationReport

	Recipients []string
}

// Subject renders a one-line notification subject.
func (c *StatusChange) Subject() string {
	name := c.ProductName
	if c.FlightName != "" {
		name += " (" + c.FlightName + ")"
	}

	return fmt.Sprintf("Submission %s for %s: %s", c.SubmissionID, name, describeState(c.State, c.Substate))
}

// Body renders the notification body: the transition, any validation
// errors, and certification report links.
func (c *StatusChange) Body() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "Submission %s transitioned from %s to %s.\n",
		c.SubmissionID,
		describeState(c.PreviousState, c.PreviousSubstate),
		describeState(c.State, c.Substate))

	if len(c.Errors) > 0 {
		builder.WriteString("\nValidation errors:\n")

		for _, detail := range c.Errors {
			fmt.Fprintf(&builder, "  - %s: %s\n", detail.Code, detail.Details)
		}
	}

	if len(c.CertificationReports) > 0 {
		builder.WriteString("\nCertification reports:\n")

		for _, report := range c.CertificationReports {
			fmt.Fprintf(&builder, "  - %s: %s\n", report.Date, report.ReportURL)
		}
	}

	return builder.String()
}

func describeState(state SubmissionState, substate SubmissionSubstate) string {
	if state == StateNone {
		return "just submitted"
	}

	if substate == SubstateNone {
		return string(state)
	}

	return fmt.Sprintf("%s/%s", state, substate)
}

// Notifier delivers submission status-change notifications. Delivery is
// fire-and-forget: the monitor logs failures and keeps polling.
type Notifier interface {
	Notify(ctx context.Context, change *StatusChange) error
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	Logger Logger
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, change *StatusChange) error {
	n.Logger.Info("submission status changed", map[string]interface{}{
		"subject":    change.Subject(),
		"body":       change.Body(),
		"recipients": strings.Join(change.Recipients, ", "),
	})

	return nil
}

// NopNotifier discards notifications.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(ctx context.Context, change *StatusChange) error {
	return nil
}
