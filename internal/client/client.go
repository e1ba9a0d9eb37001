package client

import (
	"context"
	"time"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/internal/http"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

// Client implements the admin.Client interface.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     admin.Logger
	loading    *admin.PendingCounter

	// Resource clients
	users admin.UsersClient
	posts admin.PostsClient
}

// New creates a new API client.
func New(ctx context.Context, config *admin.Config) (*Client, error) {
	if config == nil {
		return nil, admin.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, admin.ErrAPIEndpointRequired
	}

	loading := config.Loading
	if loading == nil {
		loading = admin.NewPendingCounter()
	}

	chain := createInterceptorChain(config, loading)
	httpOpts := createHTTPClientOptions(config, chain)
	httpClient := http.NewClient(config.APIEndpoint, httpOpts...)

	client := &Client{
		httpClient: httpClient,
		baseURL:    httpClient.BaseURL(),
		logger:     config.Logger,
		loading:    loading,
	}

	client.initializeResourceClients()

	return client, nil
}

// createInterceptorChain builds the built-in interceptors followed by the
// ones supplied in config. The loading pair comes first among response
// interceptors so that a failing custom interceptor cannot leak a Show.
func createInterceptorChain(config *admin.Config, loading *admin.PendingCounter) *admin.InterceptorChain {
	chain := admin.NewInterceptorChain()

	chain.AddRequestInterceptor(admin.RequestIDInterceptor())
	chain.AddRequestInterceptor(admin.TimingInterceptor())
	chain.AddRequestInterceptor(admin.LoadingRequestInterceptor(loading))
	chain.AddResponseInterceptor(admin.LoadingResponseInterceptor(loading))

	if config.Logger != nil {
		chain.AddRequestInterceptor(admin.LoggingInterceptor(config.Logger))
		chain.AddResponseInterceptor(admin.LoggingResponseInterceptor(config.Logger))
	}

	for _, interceptor := range config.RequestInterceptors {
		chain.AddRequestInterceptor(interceptor)
	}

	for _, interceptor := range config.ResponseInterceptors {
		chain.AddResponseInterceptor(interceptor)
	}

	return chain
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *admin.Config, chain *admin.InterceptorChain) []http.Option {
	httpOpts := []http.Option{http.WithInterceptors(chain)}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, maxDuration(retryWaitMin, retryWaitMax)))
	}

	return httpOpts
}

// Users implements admin.Client.Users.
func (c *Client) Users() admin.UsersClient {
	return c.users
}

// Posts implements admin.Client.Posts.
func (c *Client) Posts() admin.PostsClient {
	return c.posts
}

// Loading implements admin.Client.Loading.
func (c *Client) Loading() *admin.PendingCounter {
	return c.loading
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.users = NewUsersClient(c.httpClient)
	c.posts = NewPostsClient(c.httpClient)
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}

	return b
}

// loggerAdapter adapts admin.Logger to http.Logger.
type loggerAdapter struct {
	logger admin.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
