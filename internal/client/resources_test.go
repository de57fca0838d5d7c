package client

import (
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storebroker-io/storebroker/pkg/store"
)

// recordedRequest captures the method, path, and body of one request seen
// by the test server.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// recordingHandler serves canned JSON per path while capturing every
// request it sees.
type recordingHandler struct {
	mu        sync.Mutex
	requests  []recordedRequest
	responses map[string]interface{}
	status    int
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{responses: map[string]interface{}{}}
}

func (h *recordingHandler) respond(path string, v interface{}) {
	h.responses[path] = v
}

func (h *recordingHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	body, _ := io.ReadAll(r.Body)

	h.mu.Lock()
	h.requests = append(h.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   body,
	})
	h.mu.Unlock()

	if h.status != 0 {
		w.WriteHeader(h.status)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if v, ok := h.responses[r.URL.Path]; ok {
		_ = json.NewEncoder(w).Encode(v)

		return
	}

	_, _ = w.Write([]byte(`{}`))
}

func (h *recordingHandler) last() recordedRequest {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.requests[len(h.requests)-1]
}

func TestProductsClient_Get(t *testing.T) {
	t.Parallel()

	handler := newRecordingHandler()
	handler.respond("/v1.0/my/applications/123", store.Application{ID: "123", PrimaryName: "Contoso Notes"})

	products := NewProductsClient(newTestHTTPClient(t, handler))

	app, err := products.Get(context.Background(), "123")
	require.NoError(t, err)

	assert.Equal(t, "Contoso Notes", app.PrimaryName)
	assert.Equal(t, "GET", handler.last().Method)
	assert.Equal(t, "/v1.0/my/applications/123", handler.last().Path)

	_, err = products.Get(context.Background(), "")
	require.ErrorIs(t, err, store.ErrProductIDRequired)
}

func TestProductsClient_List(t *testing.T) {
	t.Parallel()

	handler := newRecordingHandler()
	handler.respond("/v1.0/my/applications", store.PageResult[store.Application]{
		Value:      []store.Application{{ID: "app-1"}},
		TotalCount: 1,
	})

	products := NewProductsClient(newTestHTTPClient(t, handler))

	page, err := products.List(context.Background(), store.NewQueryParams().WithTop(10).WithSkip(20))
	require.NoError(t, err)

	assert.Len(t, page.Value, 1)
	assert.Equal(t, 1, page.TotalCount)
	assert.Contains(t, handler.last().Query, "top=10")
	assert.Contains(t, handler.last().Query, "skip=20")
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestSubmissionsClient(t *testing.T) {
	t.Parallel()

	t.Run("create posts to the submissions collection", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()
		handler.respond("/v1.0/my/applications/123/submissions", store.Submission{ID: "42", Status: store.StateInDraft})

		submissions := NewSubmissionsClient(newTestHTTPClient(t, handler), nil, nil)

		submission, err := submissions.Create(context.Background(), "123")
		require.NoError(t, err)

		assert.Equal(t, "42", submission.ID)
		assert.Equal(t, "POST", handler.last().Method)
		assert.Equal(t, "/v1.0/my/applications/123/submissions", handler.last().Path)
	})

	t.Run("update puts the whole document", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()
		handler.respond("/v1.0/my/applications/123/submissions/42", store.Submission{ID: "42"})

		submissions := NewSubmissionsClient(newTestHTTPClient(t, handler), nil, nil)

		_, err := submissions.Update(context.Background(), "123", &store.Submission{
			ID:                "42",
			TargetPublishMode: store.PublishModeManual,
		})
		require.NoError(t, err)

		last := handler.last()
		assert.Equal(t, "PUT", last.Method)
		assert.Contains(t, string(last.Body), `"targetPublishMode":"Manual"`)

		_, err = submissions.Update(context.Background(), "123", &store.Submission{})
		require.ErrorIs(t, err, store.ErrSubmissionIDRequired)
	})

	t.Run("commit posts to the commit action", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()
		handler.respond("/v1.0/my/applications/123/submissions/42/commit", store.SubmissionStatus{Status: store.StateSubmitted})

		submissions := NewSubmissionsClient(newTestHTTPClient(t, handler), nil, nil)

		status, err := submissions.Commit(context.Background(), "123", "42")
		require.NoError(t, err)

		assert.Equal(t, store.StateSubmitted, status.Status)
		assert.Equal(t, "POST", handler.last().Method)
		assert.Equal(t, "/v1.0/my/applications/123/submissions/42/commit", handler.last().Path)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()

		submissions := NewSubmissionsClient(newTestHTTPClient(t, handler), nil, nil)

		err := submissions.Delete(context.Background(), "123", "42")
		require.NoError(t, err)

		assert.Equal(t, "DELETE", handler.last().Method)
		assert.Equal(t, "/v1.0/my/applications/123/submissions/42", handler.last().Path)
	})

	t.Run("status hits the status endpoint", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()
		handler.respond("/v1.0/my/applications/123/submissions/42/status", store.SubmissionStatus{
			Status:    store.StateSubmitted,
			Substatus: store.SubstateInCertification,
		})

		submissions := NewSubmissionsClient(newTestHTTPClient(t, handler), nil, nil)

		status, err := submissions.Status(context.Background(), "123", "42")
		require.NoError(t, err)

		assert.Equal(t, store.SubstateInCertification, status.Substatus)
		assert.Equal(t, "/v1.0/my/applications/123/submissions/42/status", handler.last().Path)
	})
}

func TestFlightsClient(t *testing.T) {
	t.Parallel()

	t.Run("create", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()
		handler.respond("/v1.0/my/applications/123/flights", store.Flight{FlightID: "f-1", FriendlyName: "Beta Ring"})

		flights := NewFlightsClient(newTestHTTPClient(t, handler))

		flight, err := flights.Create(context.Background(), "123", &store.FlightCreateRequest{
			FriendlyName: "Beta Ring",
			GroupIDs:     []string{"1152921504606846736"},
		})
		require.NoError(t, err)

		assert.Equal(t, "f-1", flight.FlightID)

		last := handler.last()
		assert.Equal(t, "POST", last.Method)
		assert.Contains(t, string(last.Body), `"friendlyName":"Beta Ring"`)
	})

	t.Run("list uses the listflights endpoint", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()
		handler.respond("/v1.0/my/applications/123/listflights", store.PageResult[store.Flight]{
			Value: []store.Flight{{FlightID: "f-1"}},
		})

		flights := NewFlightsClient(newTestHTTPClient(t, handler))

		all, err := flights.ListAll(context.Background(), "123")
		require.NoError(t, err)

		assert.Len(t, all, 1)
		assert.Equal(t, "/v1.0/my/applications/123/listflights", handler.last().Path)
	})

	t.Run("get and delete address a single flight", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()
		handler.respond("/v1.0/my/applications/123/flights/f-1", store.Flight{FlightID: "f-1"})

		flights := NewFlightsClient(newTestHTTPClient(t, handler))

		_, err := flights.Get(context.Background(), "123", "f-1")
		require.NoError(t, err)
		assert.Equal(t, "/v1.0/my/applications/123/flights/f-1", handler.last().Path)

		err = flights.Delete(context.Background(), "123", "f-1")
		require.NoError(t, err)
		assert.Equal(t, "DELETE", handler.last().Method)

		_, err = flights.Get(context.Background(), "123", "")
		require.ErrorIs(t, err, store.ErrFlightIDRequired)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestListingsClient(t *testing.T) {
	t.Parallel()

	submissionDoc := store.Submission{
		ID: "42",
		Listings: map[string]store.Listing{
			"en-us": {BaseListing: store.BaseListing{Title: "Contoso Notes"}},
		},
	}

	t.Run("get returns the market listing", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()
		handler.respond("/v1.0/my/applications/123/submissions/42", submissionDoc)

		listings := NewListingsClient(newTestHTTPClient(t, handler))

		listing, err := listings.Get(context.Background(), "123", "42", "en-us")
		require.NoError(t, err)

		assert.Equal(t, "Contoso Notes", listing.BaseListing.Title)
	})

	t.Run("missing market", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()
		handler.respond("/v1.0/my/applications/123/submissions/42", submissionDoc)

		listings := NewListingsClient(newTestHTTPClient(t, handler))

		_, err := listings.Get(context.Background(), "123", "42", "de-de")

		require.ErrorIs(t, err, store.ErrListingNotFound)
		assert.False(t, store.IsNotFound(err))
		assert.Contains(t, err.Error(), `"de-de"`)
	})

	t.Run("update rewrites the submission document", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()
		handler.respond("/v1.0/my/applications/123/submissions/42", submissionDoc)

		listings := NewListingsClient(newTestHTTPClient(t, handler))

		_, err := listings.Update(context.Background(), "123", "42", "de-de", &store.Listing{
			BaseListing: store.BaseListing{Title: "Contoso Notizen"},
		})
		require.NoError(t, err)

		last := handler.last()
		assert.Equal(t, "PUT", last.Method)
		assert.Contains(t, string(last.Body), `"de-de"`)
		assert.Contains(t, string(last.Body), "Contoso Notizen")
		assert.Contains(t, string(last.Body), "Contoso Notes")
	})

	t.Run("market is required", func(t *testing.T) {
		t.Parallel()

		listings := NewListingsClient(newTestHTTPClient(t, newRecordingHandler()))

		_, err := listings.Get(context.Background(), "123", "42", "")
		require.ErrorIs(t, err, store.ErrMarketRequired)
	})
}

// fakeTransferer records upload calls instead of talking to storage.
type fakeTransferer struct {
	uploads []string
	err     error
}

func (f *fakeTransferer) Upload(ctx context.Context, localPath, sasURL string) error {
	f.uploads = append(f.uploads, localPath+" -> "+sasURL)

	return f.err
}

func (f *fakeTransferer) Download(ctx context.Context, sasURL, localPath string) error {
	return f.err
}

func TestPackagesClient(t *testing.T) {
	t.Parallel()

	t.Run("update replaces the package set", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()
		handler.respond("/v1.0/my/applications/123/submissions/42", store.Submission{
			ID: "42",
			ApplicationPackages: []store.ApplicationPackage{
				{FileName: "old.appxupload", FileStatus: store.FileStatusUploaded},
			},
		})

		packages := NewPackagesClient(newTestHTTPClient(t, handler), &fakeTransferer{})

		_, err := packages.Update(context.Background(), "123", "42", []store.ApplicationPackage{
			{FileName: "new.appxupload", FileStatus: store.FileStatusPendingUpload},
		})
		require.NoError(t, err)

		last := handler.last()
		assert.Equal(t, "PUT", last.Method)
		assert.Contains(t, string(last.Body), "new.appxupload")
		assert.NotContains(t, string(last.Body), "old.appxupload")
	})

	t.Run("upload goes through the pre-signed URL", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()
		handler.respond("/v1.0/my/applications/123/submissions/42", store.Submission{
			ID:            "42",
			FileUploadURL: "https://blobs.example.com/container/42?sig=abc",
		})

		transferer := &fakeTransferer{}
		packages := NewPackagesClient(newTestHTTPClient(t, handler), transferer)

		err := packages.Upload(context.Background(), "123", "42", "/tmp/app.zip")
		require.NoError(t, err)

		require.Len(t, transferer.uploads, 1)
		assert.Equal(t, "/tmp/app.zip -> https://blobs.example.com/container/42?sig=abc", transferer.uploads[0])
	})

	t.Run("upload without an upload URL", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()
		handler.respond("/v1.0/my/applications/123/submissions/42", store.Submission{ID: "42"})

		packages := NewPackagesClient(newTestHTTPClient(t, handler), &fakeTransferer{})

		err := packages.Upload(context.Background(), "123", "42", "/tmp/app.zip")
		require.ErrorIs(t, err, store.ErrNoFileUploadURL)
	})
}

func TestRolloutClient(t *testing.T) {
	t.Parallel()

	t.Run("set percentage", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()
		handler.respond("/v1.0/my/applications/123/submissions/42/updatepackagerolloutpercentage", store.PackageRollout{
			IsPackageRollout:         true,
			PackageRolloutPercentage: 25.5,
		})

		rollout := NewRolloutClient(newTestHTTPClient(t, handler))

		result, err := rollout.SetPercentage(context.Background(), "123", "42", 25.5)
		require.NoError(t, err)

		assert.InEpsilon(t, 25.5, result.PackageRolloutPercentage, 0.001)

		last := handler.last()
		assert.Equal(t, "POST", last.Method)
		assert.Equal(t, "percentage=25.5", last.Query)
	})

	t.Run("halt and finalize", func(t *testing.T) {
		t.Parallel()

		handler := newRecordingHandler()

		rollout := NewRolloutClient(newTestHTTPClient(t, handler))

		_, err := rollout.Halt(context.Background(), "123", "42")
		require.NoError(t, err)
		assert.Equal(t, "/v1.0/my/applications/123/submissions/42/haltpackagerollout", handler.last().Path)

		_, err = rollout.Finalize(context.Background(), "123", "42")
		require.NoError(t, err)
		assert.Equal(t, "/v1.0/my/applications/123/submissions/42/finalizepackagerollout", handler.last().Path)
	})
}
