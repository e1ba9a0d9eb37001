package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for API requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second

	// ServerReadHeaderTimeout bounds how long the console waits for request headers.
	ServerReadHeaderTimeout = 10 * time.Second

	// ServerShutdownTimeout bounds graceful shutdown of the console.
	ServerShutdownTimeout = 15 * time.Second
)

// Retry limits. Retries are off unless configured.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Pagination.
const (
	// PageSize is the fixed number of items per list page.
	PageSize = 6
)

// Form limits.
const (
	// NameMinLength is the minimum length of a user's full name.
	NameMinLength = 3

	// UsernameMinLength is the minimum length of a username.
	UsernameMinLength = 3

	// EmailMaxLength is the maximum length of an email address.
	EmailMaxLength = 254
)

// API paths.
const (
	APIPathUsers = "/users"
	APIPathPosts = "/posts"
)

// Query parameters.
const (
	QueryUserID = "userId"
	QueryPage   = "page"
	QueryEdit   = "edit"
	QueryView   = "view"
	QueryLayout = "layout"
	QueryReload = "reload"
	QueryRev    = "rev"
)

// Persisted browser state.
const (
	// SidebarCookie stores the collapsed flag of the sidebar as "1" or "0".
	SidebarCookie = "sb_collapsed"

	// SidebarCookieMaxAge keeps the flag for a year.
	SidebarCookieMaxAge = 365 * 24 * 60 * 60
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Resource names used in events, metrics and messages.
const (
	ResourceUsers = "users"
	ResourcePosts = "posts"
)

// Operations.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
	OperationList   = "list"
	OperationGet    = "get"
)

// Display.
const (
	// JSONIndentSize is the indent used for JSON output.
	JSONIndentSize = 2

	// StringTruncationLength limits long text in tables.
	StringTruncationLength = 60

	// SpinnerInterval is the frame interval of the terminal spinner.
	SpinnerInterval = 100 * time.Millisecond

	// UnknownUserFormat renders a post author missing from the users list.
	UnknownUserFormat = "Unknown User (%d)"
)

// Events.
const (
	// DefaultEventSubjectPrefix prefixes NATS subjects of change events.
	DefaultEventSubjectPrefix = "crudadmin"

	// DefaultListenAddress is where the console listens by default.
	DefaultListenAddress = ":8080"

	// MetricsNamespace prefixes Prometheus metric names.
	MetricsNamespace = "crudadmin"
)
