package store

// SubmissionState is the coarse lifecycle state of a submission as it
// moves through the certification pipeline.
type SubmissionState string

// Submission states.
const (
	// StateNone is the sentinel "just submitted, nothing observed yet"
	// state used as the monitor's initial previous marker.
	StateNone SubmissionState = ""

	StateInDraft               SubmissionState = "InDraft"
	StateSubmitted             SubmissionState = "Submitted"
	StateFailed                SubmissionState = "Failed"
	StateFailedInCertification SubmissionState = "FailedInCertification"
	StateReadyToPublish        SubmissionState = "ReadyToPublish"
	StatePublishing            SubmissionState = "Publishing"
	StatePublished             SubmissionState = "Published"
	StateInStore               SubmissionState = "InStore"
	StateCancelled             SubmissionState = "Cancelled"
)

// Known reports whether the state is part of the closed taxonomy.
func (s SubmissionState) Known() bool {
	switch s {
	case StateNone, StateInDraft, StateSubmitted, StateFailed,
		StateFailedInCertification, StateReadyToPublish, StatePublishing,
		StatePublished, StateInStore, StateCancelled:
		return true
	}

	return false
}

// Failed reports whether the state is a failure variant.
func (s SubmissionState) Failed() bool {
	return s == StateFailed || s == StateFailedInCertification
}

// Terminal reports whether monitoring should stop at this state.
// ReadyToPublish is terminal only when the target publish mode requires a
// manual publish action; in immediate mode the service continues to
// Publishing on its own.
func (s SubmissionState) Terminal(mode TargetPublishMode) bool {
	switch s {
	case StateFailed, StateFailedInCertification, StatePublished,
		StateInStore, StateCancelled:
		return true
	case StateReadyToPublish:
		return mode == PublishModeManual
	case StateNone, StateInDraft, StateSubmitted, StatePublishing:
		return false
	}

	return false
}

// SubmissionSubstate refines the coarse state with pipeline detail.
type SubmissionSubstate string

// Submission substates.
const (
	SubstateNone            SubmissionSubstate = ""
	SubstateInDraft         SubmissionSubstate = "InDraft"
	SubstateSubmitted       SubmissionSubstate = "Submitted"
	SubstateInCodeSigning   SubmissionSubstate = "InCodeSigning"
	SubstateInPreProcessing SubmissionSubstate = "InPreProcessing"
	SubstateInCertification SubmissionSubstate = "InCertification"
	SubstateInPublishing    SubmissionSubstate = "InPublishing"
	SubstateReadyForRelease SubmissionSubstate = "ReadyForRelease"
	SubstateFailed          SubmissionSubstate = "Failed"
	SubstateCancelled       SubmissionSubstate = "Cancelled"
)

// TargetPublishMode controls when a committed submission goes live.
type TargetPublishMode string

// Target publish modes.
const (
	PublishModeImmediate    TargetPublishMode = "Immediate"
	PublishModeManual       TargetPublishMode = "Manual"
	PublishModeSpecificDate TargetPublishMode = "SpecificDate"
)

// FileStatus tracks the upload lifecycle of a package or image file.
type FileStatus string

// File statuses.
const (
	FileStatusNone          FileStatus = "None"
	FileStatusPendingUpload FileStatus = "PendingUpload"
	FileStatusUploaded      FileStatus = "Uploaded"
	FileStatusPendingDelete FileStatus = "PendingDelete"
)

// PageResult represents one page of a paginated list response. Newer API
// versions supply NextLink; older versions are driven by top/skip query
// parameters and report TotalCount.
type PageResult[T any] struct {
	Value      []T    `json:"value"                yaml:"value"`
	NextLink   string `json:"@nextLink,omitempty"  yaml:"nextLink,omitempty"`
	TotalCount int    `json:"totalCount,omitempty" yaml:"totalCount,omitempty"`
}

// SubmissionRef points at a submission resource.
type SubmissionRef struct {
	ID               string `json:"id"               yaml:"id"`
	ResourceLocation string `json:"resourceLocation" yaml:"resourceLocation"`
}

// Application represents a product in the developer account.
type Application struct {
	ID                                 string         `json:"id"                                           yaml:"id"`
	PrimaryName                        string         `json:"primaryName"                                  yaml:"primaryName"`
	PackageFamilyName                  string         `json:"packageFamilyName,omitempty"                  yaml:"packageFamilyName,omitempty"`
	PackageIdentityName                string         `json:"packageIdentityName,omitempty"                yaml:"packageIdentityName,omitempty"`
	PublisherName                      string         `json:"publisherName,omitempty"                      yaml:"publisherName,omitempty"`
	FirstPublishedDate                 string         `json:"firstPublishedDate,omitempty"                 yaml:"firstPublishedDate,omitempty"`
	LastPublishedApplicationSubmission *SubmissionRef `json:"lastPublishedApplicationSubmission,omitempty" yaml:"lastPublishedApplicationSubmission,omitempty"`
	PendingApplicationSubmission       *SubmissionRef `json:"pendingApplicationSubmission,omitempty"       yaml:"pendingApplicationSubmission,omitempty"`
	HasAdvancedListingPermission       bool           `json:"hasAdvancedListingPermission,omitempty"       yaml:"hasAdvancedListingPermission,omitempty"`
}

// Flight represents a package flight: a named non-production distribution
// ring a submission can target instead of full public release.
type Flight struct {
	FlightID                      string         `json:"flightId"                                yaml:"flightId"`
	FriendlyName                  string         `json:"friendlyName"                            yaml:"friendlyName"`
	GroupIDs                      []string       `json:"groupIds"                                yaml:"groupIds"`
	RankHigherThan                string         `json:"rankHigherThan,omitempty"                yaml:"rankHigherThan,omitempty"`
	LastPublishedFlightSubmission *SubmissionRef `json:"lastPublishedFlightSubmission,omitempty" yaml:"lastPublishedFlightSubmission,omitempty"`
	PendingFlightSubmission       *SubmissionRef `json:"pendingFlightSubmission,omitempty"       yaml:"pendingFlightSubmission,omitempty"`
}

// FlightCreateRequest is the body for creating a package flight.
type FlightCreateRequest struct {
	FriendlyName   string   `json:"friendlyName"             yaml:"friendlyName"`
	GroupIDs       []string `json:"groupIds"                 yaml:"groupIds"`
	RankHigherThan string   `json:"rankHigherThan,omitempty" yaml:"rankHigherThan,omitempty"`
}

// StatusDetail is a single validation error or warning entry.
type StatusDetail struct {
	Code    string `json:"code"              yaml:"code"`
	Details string `json:"details,omitempty" yaml:"details,omitempty"`
}

// CertificationReport is one entry of the certification outcome.
type CertificationReport struct {
	Date      string `json:"date"      yaml:"date"`
	ReportURL string `json:"reportUrl" yaml:"reportUrl"`
}

// SubmissionStatusDetails carries validation issues and certification
// report entries for a submission.
type SubmissionStatusDetails struct {
	Errors               []StatusDetail        `json:"errors,omitempty"               yaml:"errors,omitempty"`
	Warnings             []StatusDetail        `json:"warnings,omitempty"             yaml:"warnings,omitempty"`
	CertificationReports []CertificationReport `json:"certificationReports,omitempty" yaml:"certificationReports,omitempty"`
}

// SubmissionStatus is the payload of the submission status endpoint.
type SubmissionStatus struct {
	Status        SubmissionState         `json:"status"              yaml:"status"`
	Substatus     SubmissionSubstate      `json:"substatus,omitempty" yaml:"substatus,omitempty"`
	StatusDetails SubmissionStatusDetails `json:"statusDetails"       yaml:"statusDetails"`
}

// ApplicationPackage is one binary package attached to a submission.
type ApplicationPackage struct {
	ID               string     `json:"id,omitempty"               yaml:"id,omitempty"`
	FileName         string     `json:"fileName"                   yaml:"fileName"`
	FileStatus       FileStatus `json:"fileStatus"                 yaml:"fileStatus"`
	Version          string     `json:"version,omitempty"          yaml:"version,omitempty"`
	Architecture     string     `json:"architecture,omitempty"     yaml:"architecture,omitempty"`
	MinimumOSVersion string     `json:"minimumOSVersion,omitempty" yaml:"minimumOSVersion,omitempty"`
}

// ListingImage is one screenshot or promotional image on a listing.
type ListingImage struct {
	FileName    string     `json:"fileName"              yaml:"fileName"`
	FileStatus  FileStatus `json:"fileStatus"            yaml:"fileStatus"`
	ImageType   string     `json:"imageType"             yaml:"imageType"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
}

// BaseListing is the market-agnostic listing metadata.
type BaseListing struct {
	Title        string         `json:"title"                  yaml:"title"`
	Description  string         `json:"description,omitempty"  yaml:"description,omitempty"`
	Features     []string       `json:"features,omitempty"     yaml:"features,omitempty"`
	Keywords     []string       `json:"keywords,omitempty"     yaml:"keywords,omitempty"`
	ReleaseNotes string         `json:"releaseNotes,omitempty" yaml:"releaseNotes,omitempty"`
	Images       []ListingImage `json:"images,omitempty"       yaml:"images,omitempty"`
}

// Listing is the per-market listing entry of a submission.
type Listing struct {
	BaseListing BaseListing `json:"baseListing" yaml:"baseListing"`
}

// PackageRollout is the gradual-rollout policy of a submission.
type PackageRollout struct {
	IsPackageRollout         bool    `json:"isPackageRollout"               yaml:"isPackageRollout"`
	PackageRolloutPercentage float64 `json:"packageRolloutPercentage"       yaml:"packageRolloutPercentage"`
	PackageRolloutStatus     string  `json:"packageRolloutStatus,omitempty" yaml:"packageRolloutStatus,omitempty"`
	FallbackSubmissionID     string  `json:"fallbackSubmissionId,omitempty" yaml:"fallbackSubmissionId,omitempty"`
}

// PackageDeliveryOptions groups rollout and mandatory-update settings.
type PackageDeliveryOptions struct {
	PackageRollout               PackageRollout `json:"packageRollout"                        yaml:"packageRollout"`
	IsMandatoryUpdate            bool           `json:"isMandatoryUpdate,omitempty"           yaml:"isMandatoryUpdate,omitempty"`
	MandatoryUpdateEffectiveDate string         `json:"mandatoryUpdateEffectiveDate,omitempty" yaml:"mandatoryUpdateEffectiveDate,omitempty"`
}

// Submission is a proposed update to a store listing/package, passing
// through the certification pipeline before publishing.
type Submission struct {
	ID                     string                  `json:"id"                              yaml:"id"`
	Status                 SubmissionState         `json:"status"                          yaml:"status"`
	Substatus              SubmissionSubstate      `json:"substatus,omitempty"             yaml:"substatus,omitempty"`
	StatusDetails          SubmissionStatusDetails `json:"statusDetails"                   yaml:"statusDetails"`
	TargetPublishMode      TargetPublishMode       `json:"targetPublishMode"               yaml:"targetPublishMode"`
	TargetPublishDate      string                  `json:"targetPublishDate,omitempty"     yaml:"targetPublishDate,omitempty"`
	FileUploadURL          string                  `json:"fileUploadUrl,omitempty"         yaml:"fileUploadUrl,omitempty"`
	FriendlyName           string                  `json:"friendlyName,omitempty"          yaml:"friendlyName,omitempty"`
	ApplicationPackages    []ApplicationPackage    `json:"applicationPackages,omitempty"   yaml:"applicationPackages,omitempty"`
	Listings               map[string]Listing      `json:"listings,omitempty"              yaml:"listings,omitempty"`
	PackageDeliveryOptions PackageDeliveryOptions  `json:"packageDeliveryOptions"          yaml:"packageDeliveryOptions"`
	NotesForCertification  string                  `json:"notesForCertification,omitempty" yaml:"notesForCertification,omitempty"`
}

// SubmissionSnapshot is the monitor's view of a submission at one poll
// tick. It is recreated wholesale on every tick; only the previous state
// and substate are retained for comparison.
type SubmissionSnapshot struct {
	ProductID            string                `yaml:"productId"`
	FlightID             string                `yaml:"flightId,omitempty"`
	SubmissionID         string                `yaml:"submissionId"`
	State                SubmissionState       `yaml:"state"`
	Substate             SubmissionSubstate    `yaml:"substate,omitempty"`
	Errors               []StatusDetail        `yaml:"errors,omitempty"`
	Warnings             []StatusDetail        `yaml:"warnings,omitempty"`
	CertificationReports []CertificationReport `yaml:"certificationReports,omitempty"`
	TargetPublishMode    TargetPublishMode     `yaml:"targetPublishMode,omitempty"`
}
