package http

import (
	"net/http"
	"time"
)

// BackoffForTest exposes the backoff schedule to external tests.
func BackoffForTest(waitMin, waitMax time.Duration, attemptNum int, resp *http.Response) time.Duration {
	return backoff(waitMin, waitMax, attemptNum, resp)
}
