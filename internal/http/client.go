// Package http is the JSON transport shared by the resource clients. It runs
// the interceptor chain around every request and normalizes every failure to
// *admin.APIError.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
	"github.com/hashicorp/go-retryablehttp"
)

const defaultUserAgent = "crudadmin/1.0"

// Logger is the logging interface used by the transport.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request describes a single API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is the raw result of an API call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client sends JSON requests to the API.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	interceptors *admin.InterceptorChain
	logger       Logger
	debug        bool
	userAgent    string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables retries on 5xx, 429 and connection errors.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the timeout of the underlying http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithInterceptors sets the interceptor chain run around every request.
func WithInterceptors(chain *admin.InterceptorChain) Option {
	return func(c *Client) {
		if chain != nil {
			c.interceptors = chain
		}
	}
}

// NewClient creates a new transport for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	// Hand back the last response instead of a generic "giving up" error so
	// that failures keep their status code.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   retryClient,
		interceptors: admin.NewInterceptorChain(),
		userAgent:    defaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req. Failed requests return *admin.APIError; when the server
// answered, the response is returned alongside the error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, admin.NewAPIError(http.StatusInternalServerError, "Failed to encode request body", err)
	}

	intercepted := &admin.Request{
		Method:   req.Method,
		Path:     req.Path,
		Headers:  make(http.Header),
		Body:     body,
		Metadata: make(map[string]interface{}),
	}
	result := &admin.Response{}

	// Response interceptors run on every path, including interceptor failures,
	// so that the loading counter is always released.
	defer func() {
		interceptErr := c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, result)
		if interceptErr != nil && c.logger != nil {
			c.logger.Warn("response interceptors failed", map[string]interface{}{"error": interceptErr.Error()})
		}
	}()

	err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
	if err != nil {
		result.Error = admin.NewAPIError(http.StatusInternalServerError, "Request aborted", err)

		return nil, result.Error
	}

	resp, err := c.send(ctx, req, intercepted)
	if err != nil {
		result.Error = err

		return nil, err
	}

	result.StatusCode = resp.StatusCode
	result.Headers = resp.Headers
	result.Body = resp.Body

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := admin.ParseErrorResponse(resp.StatusCode, resp.Body)
		result.Error = apiErr

		return resp, apiErr
	}

	return resp, nil
}

func (c *Client) send(ctx context.Context, req *Request, intercepted *admin.Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var rawBody interface{}
	if intercepted.Body != nil {
		rawBody = intercepted.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, admin.NewAPIError(http.StatusInternalServerError, "Failed to create request", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if intercepted.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for key, values := range intercepted.Headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	c.logRequest(req, intercepted)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, admin.NewAPIError(http.StatusInternalServerError, transportMessage(err), err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, admin.NewAPIError(httpResp.StatusCode, "Failed to read response body", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	c.logResponse(req, resp)

	return resp, nil
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Mutate(ctx, http.MethodPost, path, body)
}

// Put sends a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Mutate(ctx, http.MethodPut, path, body)
}

// Patch sends a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Mutate(ctx, http.MethodPatch, path, body)
}

// Mutate sends a request with a JSON body using method.
func (c *Client) Mutate(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: method,
		Path:   path,
		Body:   body,
	})
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   path,
	})
}

func (c *Client) logRequest(req *Request, intercepted *admin.Request) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method":     req.Method,
		"path":       req.Path,
		"query":      req.Query.Encode(),
		"request_id": intercepted.Headers.Get(admin.RequestIDHeader),
	})
}

func (c *Client) logResponse(req *Request, resp *Response) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Response", map[string]interface{}{
		"method":      req.Method,
		"path":        req.Path,
		"status_code": resp.StatusCode,
		"bytes":       len(resp.Body),
	})
}

func encodeBody(body interface{}) ([]byte, error) {
	if body == nil {
		return nil, nil
	}

	var buf bytes.Buffer

	err := json.NewEncoder(&buf).Encode(body)
	if err != nil {
		return nil, fmt.Errorf("encoding JSON body: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func transportMessage(err error) string {
	if err == nil {
		return "Request failed"
	}

	return err.Error()
}
