package store

import (
	"context"
	"time"
)

// ProductsClient operates on the account's products.
type ProductsClient interface {
	Get(ctx context.Context, productID string) (*Application, error)
	List(ctx context.Context, params *QueryParams) (*PageResult[Application], error)
	// ListAll follows continuations until the full result set is
	// aggregated, in server order.
	ListAll(ctx context.Context) ([]Application, error)
}

// SubmissionsClient operates on application submissions.
type SubmissionsClient interface {
	// Create starts a new submission cloned from the last published one.
	Create(ctx context.Context, productID string) (*Submission, error)
	Get(ctx context.Context, productID, submissionID string) (*Submission, error)
	// Update replaces the pending submission's content wholesale.
	Update(ctx context.Context, productID string, submission *Submission) (*Submission, error)
	// Commit finalizes the submission and sends it into certification.
	Commit(ctx context.Context, productID, submissionID string) (*SubmissionStatus, error)
	Delete(ctx context.Context, productID, submissionID string) error
	Status(ctx context.Context, productID, submissionID string) (*SubmissionStatus, error)
	// Monitor blocks, polling the submission until a terminal state, and
	// returns the final snapshot. The caller owns the goroutine; cancel
	// the context to abort monitoring.
	Monitor(ctx context.Context, productID, submissionID string, opts *MonitorOptions) (*SubmissionSnapshot, error)
}

// FlightsClient operates on package flights.
type FlightsClient interface {
	Create(ctx context.Context, productID string, request *FlightCreateRequest) (*Flight, error)
	Get(ctx context.Context, productID, flightID string) (*Flight, error)
	List(ctx context.Context, productID string, params *QueryParams) (*PageResult[Flight], error)
	ListAll(ctx context.Context, productID string) ([]Flight, error)
	Delete(ctx context.Context, productID, flightID string) error
}

// ListingsClient operates on per-market listing metadata of a pending
// submission.
type ListingsClient interface {
	Get(ctx context.Context, productID, submissionID, market string) (*Listing, error)
	Update(ctx context.Context, productID, submissionID, market string, listing *Listing) (*Submission, error)
}

// PackagesClient operates on the package set of a pending submission.
type PackagesClient interface {
	Update(ctx context.Context, productID, submissionID string, packages []ApplicationPackage) (*Submission, error)
	// Upload transfers a package zip to the submission's pre-signed
	// upload URL.
	Upload(ctx context.Context, productID, submissionID, zipPath string) error
}

// RolloutClient operates on a submission's gradual rollout policy.
type RolloutClient interface {
	Get(ctx context.Context, productID, submissionID string) (*PackageRollout, error)
	SetPercentage(ctx context.Context, productID, submissionID string, percentage float64) (*PackageRollout, error)
	Halt(ctx context.Context, productID, submissionID string) (*PackageRollout, error)
	Finalize(ctx context.Context, productID, submissionID string) (*PackageRollout, error)
}

// Client is the typed façade over the submission REST API.
type Client interface {
	Products() ProductsClient
	Submissions() SubmissionsClient
	Flights() FlightsClient
	Listings() ListingsClient
	Packages() PackagesClient
	Rollout() RolloutClient

	// GetToken returns a current access token from the token provider.
	// Combine with WithToken to share one token across batch operations.
	GetToken(ctx context.Context) (string, error)
}

// MonitorOptions tunes the submission monitor.
type MonitorOptions struct {
	// Interval between polls. Zero selects the default.
	Interval time.Duration

	// FlightID, when set, monitors a flight submission and includes the
	// flight name in notifications.
	FlightID string

	// Notifier receives status-change notifications. Nil disables them.
	Notifier Notifier

	// Recipients is passed through to the notifier.
	Recipients []string
}
