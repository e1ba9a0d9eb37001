package admin

import (
	"context"
	"time"
)

// UsersClient defines operations for users.
type UsersClient interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id int) (*User, error)
	Create(ctx context.Context, request *NewUser) (*User, error)
	Update(ctx context.Context, id int, request *UserUpdate) (*User, error)
	Delete(ctx context.Context, id int) error
}

// PostsClient defines operations for posts.
type PostsClient interface {
	List(ctx context.Context) ([]Post, error)
	ListByUser(ctx context.Context, userID int) ([]Post, error)
	Get(ctx context.Context, id int) (*Post, error)
	Create(ctx context.Context, request *NewPost) (*Post, error)
	Update(ctx context.Context, id int, request *PostUpdate) (*Post, error)
	Delete(ctx context.Context, id int) error
}

// Client provides access to the resource clients and the shared loading counter.
type Client interface {
	Users() UsersClient
	Posts() PostsClient
	Loading() *PendingCounter
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Client.
//
// # Loading indicator
//
// Every request increments Loading before it is dispatched and decrements it
// once the request settles, whatever the outcome. When Loading is nil the
// client creates its own counter, reachable through Client.Loading.
//
// # Retries
//
// RetryMax defaults to zero: each operation is exactly one call against one
// endpoint. Raising it enables retries on 5xx, 429 and connection errors.
type Config struct {
	// APIEndpoint: base URL of the REST API (e.g., "https://api.example.com").
	// adminclient.New trims a trailing slash and adds "https://" when no
	// scheme is present.
	APIEndpoint string

	// HTTPTimeout: timeout applied to the underlying http.Client. Zero keeps
	// the transport default.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries for transient failures.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Loading: shared pending-request counter.
	Loading *PendingCounter

	// RequestInterceptors run after the built-in ones, in order.
	RequestInterceptors []RequestInterceptor
	// ResponseInterceptors run after the built-in ones, in order.
	ResponseInterceptors []ResponseInterceptor
}
