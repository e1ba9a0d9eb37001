package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/internal/http"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

// PostsClient implements admin.PostsClient.
type PostsClient struct {
	httpClient *http.Client
}

// NewPostsClient creates a new posts client.
func NewPostsClient(httpClient *http.Client) *PostsClient {
	return &PostsClient{
		httpClient: httpClient,
	}
}

// List implements admin.PostsClient.List.
func (c *PostsClient) List(ctx context.Context) ([]admin.Post, error) {
	return c.list(ctx, nil)
}

// ListByUser implements admin.PostsClient.ListByUser.
func (c *PostsClient) ListByUser(ctx context.Context, userID int) ([]admin.Post, error) {
	query := url.Values{}
	query.Set(constants.QueryUserID, strconv.Itoa(userID))

	return c.list(ctx, query)
}

func (c *PostsClient) list(ctx context.Context, query url.Values) ([]admin.Post, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathPosts, query)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	var posts []admin.Post

	err = decode(resp, &posts)
	if err != nil {
		return nil, fmt.Errorf("parsing posts list: %w", err)
	}

	if posts == nil {
		posts = []admin.Post{}
	}

	return posts, nil
}

// Get implements admin.PostsClient.Get.
func (c *PostsClient) Get(ctx context.Context, id int) (*admin.Post, error) {
	resp, err := c.httpClient.Get(ctx, postPath(id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting post %d: %w", id, err)
	}

	var post admin.Post

	err = decode(resp, &post)
	if err != nil {
		return nil, fmt.Errorf("parsing post: %w", err)
	}

	return &post, nil
}

// Create implements admin.PostsClient.Create.
func (c *PostsClient) Create(ctx context.Context, request *admin.NewPost) (*admin.Post, error) {
	resp, err := c.httpClient.Post(ctx, constants.APIPathPosts, request)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	var post admin.Post

	err = decode(resp, &post)
	if err != nil {
		return nil, fmt.Errorf("parsing post response: %w", err)
	}

	return &post, nil
}

// Update implements admin.PostsClient.Update.
func (c *PostsClient) Update(ctx context.Context, id int, request *admin.PostUpdate) (*admin.Post, error) {
	resp, err := c.httpClient.Patch(ctx, postPath(id), request)
	if err != nil {
		return nil, fmt.Errorf("updating post %d: %w", id, err)
	}

	var post admin.Post

	err = decode(resp, &post)
	if err != nil {
		return nil, fmt.Errorf("parsing post response: %w", err)
	}

	return &post, nil
}

// Delete implements admin.PostsClient.Delete.
func (c *PostsClient) Delete(ctx context.Context, id int) error {
	_, err := c.httpClient.Delete(ctx, postPath(id))
	if err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}

	return nil
}

func postPath(id int) string {
	return constants.APIPathPosts + "/" + strconv.Itoa(id)
}
