package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/internal/http"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

// UsersClient implements admin.UsersClient.
type UsersClient struct {
	httpClient *http.Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *http.Client) *UsersClient {
	return &UsersClient{
		httpClient: httpClient,
	}
}

// List implements admin.UsersClient.List.
func (c *UsersClient) List(ctx context.Context) ([]admin.User, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathUsers, nil)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	var users []admin.User

	err = decode(resp, &users)
	if err != nil {
		return nil, fmt.Errorf("parsing users list: %w", err)
	}

	if users == nil {
		users = []admin.User{}
	}

	return users, nil
}

// Get implements admin.UsersClient.Get.
func (c *UsersClient) Get(ctx context.Context, id int) (*admin.User, error) {
	resp, err := c.httpClient.Get(ctx, userPath(id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}

	var user admin.User

	err = decode(resp, &user)
	if err != nil {
		return nil, fmt.Errorf("parsing user: %w", err)
	}

	return &user, nil
}

// Create implements admin.UsersClient.Create.
func (c *UsersClient) Create(ctx context.Context, request *admin.NewUser) (*admin.User, error) {
	resp, err := c.httpClient.Post(ctx, constants.APIPathUsers, request)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	var user admin.User

	err = decode(resp, &user)
	if err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}

	return &user, nil
}

// Update implements admin.UsersClient.Update.
func (c *UsersClient) Update(ctx context.Context, id int, request *admin.UserUpdate) (*admin.User, error) {
	resp, err := c.httpClient.Patch(ctx, userPath(id), request)
	if err != nil {
		return nil, fmt.Errorf("updating user %d: %w", id, err)
	}

	var user admin.User

	err = decode(resp, &user)
	if err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}

	return &user, nil
}

// Delete implements admin.UsersClient.Delete.
func (c *UsersClient) Delete(ctx context.Context, id int) error {
	_, err := c.httpClient.Delete(ctx, userPath(id))
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}

	return nil
}

func userPath(id int) string {
	return constants.APIPathUsers + "/" + strconv.Itoa(id)
}

// decode unmarshals a JSON response body. An empty body leaves target untouched.
func decode(resp *http.Response, target interface{}) error {
	if resp == nil || len(resp.Body) == 0 {
		return nil
	}

	err := json.Unmarshal(resp.Body, target)
	if err != nil {
		return admin.NewAPIError(resp.StatusCode, "Invalid response body", err)
	}

	return nil
}
