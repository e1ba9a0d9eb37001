package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	adminhttp "github.com/fivetwenty-io/crudadmin/internal/http"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing.
type MockLogger struct {
	mu   sync.Mutex
	logs []map[string]interface{}
}

func (l *MockLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }

func (l *MockLogger) Info(msg string, fields map[string]interface{}) { l.record("info", msg, fields) }

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) { l.record("warn", msg, fields) }

func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/users/1", request.URL.Path)
			assert.Equal(t, http.MethodGet, request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			_ = json.NewEncoder(writer).Encode(admin.User{ID: 1, Name: "Leanne Graham"})
		}))
		defer server.Close()

		client := adminhttp.NewClient(server.URL)

		resp, err := client.Do(context.Background(), &adminhttp.Request{
			Method: http.MethodGet,
			Path:   "/users/1",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var user admin.User

		err = json.Unmarshal(resp.Body, &user)
		require.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		assert.Equal(t, "Leanne Graham", user.Name)
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/posts", request.URL.Path)
			assert.Equal(t, "userId=2", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := adminhttp.NewClient(server.URL + "/")

		resp, err := client.Get(context.Background(), "/posts", url.Values{"userId": []string{"2"}})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with JSON body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body admin.NewPost

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, 3, body.UserID)
			assert.Equal(t, "hello", body.Title)

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := adminhttp.NewClient(server.URL)

		resp, err := client.Post(context.Background(), "/posts", &admin.NewPost{UserID: 3, Title: "hello", Body: "world"})
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("error response is normalized", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(writer).Encode(map[string]string{"message": "User not found"})
		}))
		defer server.Close()

		client := adminhttp.NewClient(server.URL)

		resp, err := client.Get(context.Background(), "/users/999", nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, 404, resp.StatusCode)

		var apiErr *admin.APIError

		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 404, apiErr.Status)
		assert.Equal(t, "User not found", apiErr.Message)
		assert.True(t, admin.IsNotFound(err))
		assert.ErrorIs(t, err, admin.ErrRequestFailed)
	})

	t.Run("transport failure becomes status 500", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
		serverURL := server.URL
		server.Close()

		client := adminhttp.NewClient(serverURL)

		resp, err := client.Get(context.Background(), "/users", nil)
		require.Error(t, err)
		assert.Nil(t, resp)

		var apiErr *admin.APIError

		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 500, apiErr.Status)
		assert.NotEmpty(t, apiErr.Message)
		assert.Error(t, apiErr.Cause)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			assert.Equal(t, "crudadmin-test", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := adminhttp.NewClient(server.URL, adminhttp.WithUserAgent("crudadmin-test"))

		resp, err := client.Do(context.Background(), &adminhttp.Request{
			Method: http.MethodGet,
			Path:   "/users",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode([]admin.User{})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := adminhttp.NewClient(server.URL, adminhttp.WithLogger(logger), adminhttp.WithDebug(true))

		_, err := client.Get(context.Background(), "/users", nil)
		require.NoError(t, err)

		require.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Interceptors(t *testing.T) {
	t.Parallel()

	t.Run("loading counter settles after success", func(t *testing.T) {
		t.Parallel()

		counter := admin.NewPendingCounter()

		var seen int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			atomic.StoreInt32(&seen, int32(counter.Pending()))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		chain := admin.NewInterceptorChain()
		chain.AddRequestInterceptor(admin.LoadingRequestInterceptor(counter))
		chain.AddResponseInterceptor(admin.LoadingResponseInterceptor(counter))

		client := adminhttp.NewClient(server.URL, adminhttp.WithInterceptors(chain))

		_, err := client.Get(context.Background(), "/users", nil)
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&seen))
		assert.Equal(t, 0, counter.Pending())
	})

	t.Run("loading counter settles after failure", func(t *testing.T) {
		t.Parallel()

		counter := admin.NewPendingCounter()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		chain := admin.NewInterceptorChain()
		chain.AddRequestInterceptor(admin.LoadingRequestInterceptor(counter))
		chain.AddResponseInterceptor(admin.LoadingResponseInterceptor(counter))

		client := adminhttp.NewClient(server.URL, adminhttp.WithInterceptors(chain))

		_, err := client.Delete(context.Background(), "/users/1")
		require.Error(t, err)
		assert.Equal(t, 0, counter.Pending())
	})

	t.Run("request interceptor failure aborts the call", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			calls.Add(1)
		}))
		defer server.Close()

		counter := admin.NewPendingCounter()
		errBoom := errors.New("boom")

		chain := admin.NewInterceptorChain()
		chain.AddRequestInterceptor(admin.LoadingRequestInterceptor(counter))
		chain.AddRequestInterceptor(func(ctx context.Context, req *admin.Request) error {
			return errBoom
		})
		chain.AddResponseInterceptor(admin.LoadingResponseInterceptor(counter))

		client := adminhttp.NewClient(server.URL, adminhttp.WithInterceptors(chain))

		_, err := client.Get(context.Background(), "/users", nil)
		require.Error(t, err)
		require.ErrorIs(t, err, errBoom)
		assert.Equal(t, int32(0), calls.Load())
		assert.Equal(t, 0, counter.Pending())
	})

	t.Run("response interceptor sees status and error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.NotEmpty(t, request.Header.Get(admin.RequestIDHeader))
			writer.WriteHeader(http.StatusConflict)
		}))
		defer server.Close()

		var (
			status int
			gotErr error
		)

		chain := admin.NewInterceptorChain()
		chain.AddRequestInterceptor(admin.RequestIDInterceptor())
		chain.AddResponseInterceptor(func(ctx context.Context, req *admin.Request, resp *admin.Response) error {
			status = resp.StatusCode
			gotErr = resp.Error

			return nil
		})

		client := adminhttp.NewClient(server.URL, adminhttp.WithInterceptors(chain))

		_, err := client.Patch(context.Background(), "/posts/1", &admin.PostUpdate{Title: admin.StringPtr("x")})
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, status)
		assert.Error(t, gotErr)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		method   string
		wantBody bool
		fn       func(*adminhttp.Client, context.Context) (*adminhttp.Response, error)
	}{
		{
			name:   "GET",
			method: http.MethodGet,
			fn: func(c *adminhttp.Client, ctx context.Context) (*adminhttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:     "POST",
			method:   http.MethodPost,
			wantBody: true,
			fn: func(c *adminhttp.Client, ctx context.Context) (*adminhttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:     "PUT",
			method:   http.MethodPut,
			wantBody: true,
			fn: func(c *adminhttp.Client, ctx context.Context) (*adminhttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:     "PATCH",
			method:   http.MethodPatch,
			wantBody: true,
			fn: func(c *adminhttp.Client, ctx context.Context) (*adminhttp.Response, error) {
				return c.Patch(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: http.MethodDelete,
			fn: func(c *adminhttp.Client, ctx context.Context) (*adminhttp.Response, error) {
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

				if testCase.wantBody {
					var body map[string]string

					err := json.NewDecoder(request.Body).Decode(&body)
					assert.NoError(t, err)
					assert.Equal(t, "value", body["key"])
				}

				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := adminhttp.NewClient(server.URL)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("no retries by default", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := adminhttp.NewClient(server.URL)

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 500, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("retries on 5xx errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := adminhttp.NewClient(server.URL, adminhttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)

			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := adminhttp.NewClient(server.URL, adminhttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())
	})
}
