package adminclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/crudadmin/internal/client"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

// New creates a new API client.
func New(ctx context.Context, config *admin.Config) (admin.Client, error) {
	if config == nil {
		return nil, admin.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, admin.ErrAPIEndpointRequired
	}

	apiEndpoint, err := NormalizeEndpoint(config.APIEndpoint)
	if err != nil {
		return nil, err
	}

	normalized := *config
	normalized.APIEndpoint = apiEndpoint

	c, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewWithEndpoint creates a new client with just an API endpoint.
func NewWithEndpoint(ctx context.Context, endpoint string) (admin.Client, error) {
	return New(ctx, &admin.Config{
		APIEndpoint: endpoint,
	})
}

// NormalizeEndpoint trims a trailing slash and adds "https://" when no scheme
// is present.
func NormalizeEndpoint(endpoint string) (string, error) {
	apiEndpoint := strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if apiEndpoint == "" {
		return "", admin.ErrAPIEndpointRequired
	}

	if !strings.HasPrefix(apiEndpoint, "http://") && !strings.HasPrefix(apiEndpoint, "https://") {
		apiEndpoint = "https://" + apiEndpoint
	}

	parsed, err := url.Parse(apiEndpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %w", admin.ErrInvalidEndpoint, err)
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("%w: %s", admin.ErrInvalidEndpoint, endpoint)
	}

	return apiEndpoint, nil
}
