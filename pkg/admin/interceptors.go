package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Request metadata keys.
const (
	MetadataStartTime    = "start_time"
	MetadataLoadingShown = "loading_shown"
	MetadataRequestID    = "request_id"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Request represents an HTTP request that can be intercepted.
type Request struct {
	Method   string
	Path     string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response represents an HTTP response that can be intercepted.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a request settles, successfully or not.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs request interceptors, stopping at the first error.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs every response interceptor, even when an
// earlier one fails, and joins their errors.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	var errs []error

	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("response interceptor failed: %w", errors.Join(errs...))
	}

	return nil
}

// Common Interceptors

// LoadingRequestInterceptor increments the pending counter before dispatch.
func LoadingRequestInterceptor(counter *PendingCounter) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		counter.Show()
		setMetadata(req, MetadataLoadingShown, true)

		return nil
	}
}

// LoadingResponseInterceptor decrements the pending counter once the request
// settled. It only undoes a Show made by LoadingRequestInterceptor.
func LoadingResponseInterceptor(counter *PendingCounter) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		shown, _ := req.Metadata[MetadataLoadingShown].(bool)
		if !shown {
			return nil
		}

		req.Metadata[MetadataLoadingShown] = false
		counter.Hide()

		return nil
	}
}

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method":     req.Method,
			"path":       req.Path,
			"request_id": req.Metadata[MetadataRequestID],
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
			"request_id":  req.Metadata[MetadataRequestID],
		}

		if resp.Error != nil {
			fields["error"] = resp.Error.Error()
			logger.Error("API Response Error", fields)
		} else {
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// RequestIDInterceptor tags every request with a fresh X-Request-ID.
func RequestIDInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		id := uuid.NewString()

		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		req.Headers.Set(RequestIDHeader, id)
		setMetadata(req, MetadataRequestID, id)

		return nil
	}
}

// HeaderInterceptor adds custom headers to requests.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}

// TimingInterceptor stores the request start time in the request metadata.
func TimingInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		setMetadata(req, MetadataStartTime, time.Now())

		return nil
	}
}

// Elapsed returns the time since TimingInterceptor ran for req.
func Elapsed(req *Request) (time.Duration, bool) {
	if req.Metadata == nil {
		return 0, false
	}

	startTime, ok := req.Metadata[MetadataStartTime].(time.Time)
	if !ok {
		return 0, false
	}

	return time.Since(startTime), true
}

func setMetadata(req *Request, key string, value interface{}) {
	if req.Metadata == nil {
		req.Metadata = make(map[string]interface{})
	}

	req.Metadata[key] = value
}
