package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sbhttp "github.com/storebroker-io/storebroker/internal/http"
	"github.com/storebroker-io/storebroker/pkg/store"
)

// MockTokenManager for testing.
type MockTokenManager struct {
	token string
	err   error
	calls int32
}

func (m *MockTokenManager) GetToken(ctx context.Context) (string, error) {
	atomic.AddInt32(&m.calls, 1)

	return m.token, m.err
}

func (m *MockTokenManager) RefreshToken(ctx context.Context) error {
	return nil
}

func (m *MockTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1.0/my/applications", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Equal(t, "storebroker", request.Header.Get("MS-ClientName"))
			assert.NotEmpty(t, request.Header.Get("MS-RequestId"))
			assert.NotEmpty(t, request.Header.Get("MS-CorrelationId"))

			response := map[string]string{"id": "9NBLGGH4R315", "primaryName": "test-app"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "test-token"}
		client := sbhttp.NewClient(server.URL, tokenManager)

		req := &sbhttp.Request{
			Method: "GET",
			Path:   "/v1.0/my/applications",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "9NBLGGH4R315", result["id"])
		assert.Equal(t, "test-app", result["primaryName"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1.0/my/applications", request.URL.Path)
			assert.Equal(t, "top=10", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := sbhttp.NewClient(server.URL, nil)

		req := &sbhttp.Request{
			Method: "GET",
			Path:   "/v1.0/my/applications",
			Query:  url.Values{"top": []string{"10"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json; charset=UTF-8", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "my-flight", body["friendlyName"])

			writer.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(writer).Encode(map[string]string{"id": "999"})
		}))
		defer server.Close()

		client := sbhttp.NewClient(server.URL, nil)

		req := &sbhttp.Request{
			Method: "POST",
			Path:   "/v1.0/my/applications/123/submissions",
			Body:   map[string]string{"friendlyName": "my-flight"},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("MS-CorrelationId", "corr-1")
			writer.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(writer).Encode(map[string]string{
				"code":    "NotFound",
				"message": "Submission not found",
			})
		}))
		defer server.Close()

		client := sbhttp.NewClient(server.URL, nil)

		req := &sbhttp.Request{
			Method: "GET",
			Path:   "/v1.0/my/applications/invalid",
		}

		resp, err := client.Do(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		apiErr := &store.APIError{}
		ok := errors.As(err, &apiErr)
		require.True(t, ok)
		assert.Equal(t, 404, apiErr.StatusCode)
		assert.Equal(t, "NotFound", apiErr.Code)
		assert.Equal(t, "Submission not found", apiErr.Message)
		assert.Equal(t, "corr-1", apiErr.CorrelationID)
		assert.False(t, apiErr.Transient)
		assert.True(t, store.IsNotFound(err))
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := sbhttp.NewClient(server.URL, nil)

		req := &sbhttp.Request{
			Method: "GET",
			Path:   "/v1.0/my/applications",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("tenant headers in proxy mode", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "tenant-1", request.Header.Get("TenantId"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := sbhttp.NewClient(server.URL, nil,
			sbhttp.WithExtraHeaders(map[string]string{"TenantId": "tenant-1"}))

		resp, err := client.Get(context.Background(), "/v1.0/my/applications", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("explicit token bypasses the token manager", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "Bearer explicit", request.Header.Get("Authorization"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "manager-token"}
		client := sbhttp.NewClient(server.URL, tokenManager)

		req := &sbhttp.Request{
			Method: "GET",
			Path:   "/v1.0/my/applications",
			Token:  "explicit",
		}

		_, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int32(0), atomic.LoadInt32(&tokenManager.calls))
	})

	t.Run("context token is shared across requests", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "Bearer shared", request.Header.Get("Authorization"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "manager-token"}
		client := sbhttp.NewClient(server.URL, tokenManager)

		ctx := store.WithToken(context.Background(), "shared")

		_, err := client.Get(ctx, "/v1.0/my/applications", nil)
		require.NoError(t, err)
		assert.Equal(t, int32(0), atomic.LoadInt32(&tokenManager.calls))
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := sbhttp.NewClient(server.URL, nil, sbhttp.WithLogger(logger), sbhttp.WithDebug(true))

		req := &sbhttp.Request{
			Method: "GET",
			Path:   "/v1.0/my/applications",
		}

		_, err := client.Do(context.Background(), req)
		require.NoError(t, err)

		// Should have logged request and response
		assert.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*sbhttp.Client, context.Context) (*sbhttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *sbhttp.Client, ctx context.Context) (*sbhttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *sbhttp.Client, ctx context.Context) (*sbhttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *sbhttp.Client, ctx context.Context) (*sbhttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PATCH",
			method: "PATCH",
			fn: func(c *sbhttp.Client, ctx context.Context) (*sbhttp.Response, error) {
				return c.Patch(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *sbhttp.Client, ctx context.Context) (*sbhttp.Response, error) {
				return c.Delete(ctx, "/test")
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := sbhttp.NewClient(server.URL, nil)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("retries on service unavailable", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++
			if attempts < 3 {
				writer.WriteHeader(http.StatusServiceUnavailable)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := sbhttp.NewClient(server.URL, nil, sbhttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 3, attempts)
	})

	t.Run("retries on rate limiting", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++
			if attempts < 3 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := sbhttp.NewClient(server.URL, nil, sbhttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 3, attempts)
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := sbhttp.NewClient(server.URL, nil, sbhttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, 1, attempts) // Should not retry
	})

	t.Run("retry budget bounds total attempts", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := sbhttp.NewClient(server.URL, nil, sbhttp.WithRetryConfig(2, 1*time.Millisecond, 10*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 503, resp.StatusCode)
		assert.Equal(t, 3, attempts) // initial attempt plus two retries

		apiErr := &store.APIError{}
		require.True(t, errors.As(err, &apiErr))
		assert.True(t, apiErr.Transient)
		assert.True(t, apiErr.RetriesExhausted)
		assert.True(t, store.IsRetriesExhausted(err))
	})

	t.Run("custom retry statuses", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++
			if attempts < 2 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := sbhttp.NewClient(server.URL, nil,
			sbhttp.WithRetryConfig(3, 1*time.Millisecond, 10*time.Millisecond),
			sbhttp.WithRetryStatuses(http.StatusInternalServerError))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 2, attempts)
	})

	t.Run("token is re-acquired per attempt", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			assert.Equal(t, "Bearer fresh", request.Header.Get("Authorization"))

			if attempts < 2 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "fresh"}
		client := sbhttp.NewClient(server.URL, tokenManager, sbhttp.WithRetryConfig(3, 1*time.Millisecond, 10*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(2), atomic.LoadInt32(&tokenManager.calls))
	})
}

func TestBackoff(t *testing.T) {
	t.Parallel()
	t.Run("delays are monotonically non-decreasing", func(t *testing.T) {
		t.Parallel()

		min := 100 * time.Millisecond
		max := time.Hour

		var previous time.Duration

		for attempt := 0; attempt < 8; attempt++ {
			delay := sbhttp.BackoffForTest(min, max, attempt, nil)
			assert.GreaterOrEqual(t, delay, min<<attempt)
			assert.Less(t, delay, min<<(attempt+2))
			assert.GreaterOrEqual(t, delay, previous)

			previous = delay
		}
	})

	t.Run("capped at the wait maximum", func(t *testing.T) {
		t.Parallel()

		delay := sbhttp.BackoffForTest(time.Second, 5*time.Second, 10, nil)
		assert.Equal(t, 5*time.Second, delay)
	})

	t.Run("honors a larger Retry-After hint", func(t *testing.T) {
		t.Parallel()

		resp := &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Header:     http.Header{"Retry-After": []string{"30"}},
		}

		delay := sbhttp.BackoffForTest(time.Second, time.Minute, 0, resp)
		assert.Equal(t, 30*time.Second, delay)
	})
}
