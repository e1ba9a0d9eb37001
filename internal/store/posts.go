package store

import (
	"context"
	"sync"

	"github.com/fivetwenty-io/crudadmin/internal/events"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

// Posts is the posts collection bound to the posts API, with an optional
// author filter.
type Posts struct {
	*collection[admin.Post]

	client admin.PostsClient

	filterMu     sync.Mutex
	selected     *int
	filterLoaded bool
}

// NewPosts creates an empty posts store.
func NewPosts(client admin.PostsClient, opts *Options) *Posts {
	return &Posts{
		collection: newCollection(events.ResourcePost, func(p admin.Post) int { return p.ID }, opts),
		client:     client,
	}
}

// Load replaces the collection with every post.
func (s *Posts) Load(ctx context.Context) error {
	s.startLoad()

	posts, err := s.client.List(ctx)
	if err != nil {
		s.failLoad(err, "Failed to load posts")

		return err
	}

	s.finishLoad(posts)

	return nil
}

// FilterByUser selects an author (nil clears the selection). When the
// selection changed, or was never fetched, the collection is re-fetched
// with ListByUser or List.
func (s *Posts) FilterByUser(ctx context.Context, userID *int) error {
	s.filterMu.Lock()
	defer s.filterMu.Unlock()

	if s.filterLoaded && sameSelection(s.selected, userID) {
		return nil
	}

	s.selected = copyInt(userID)

	s.startLoad()

	var (
		posts []admin.Post
		err   error
	)

	if userID == nil {
		posts, err = s.client.List(ctx)
	} else {
		posts, err = s.client.ListByUser(ctx, *userID)
	}

	if err != nil {
		s.failLoad(err, "Failed to fetch posts")
		s.filterLoaded = false

		return err
	}

	s.finishLoad(posts)
	s.filterLoaded = true

	return nil
}

// Invalidate makes the next FilterByUser fetch even when the selection is
// unchanged.
func (s *Posts) Invalidate() {
	s.filterMu.Lock()
	defer s.filterMu.Unlock()

	s.filterLoaded = false
}

// SelectedUser returns the selected author, nil when none.
func (s *Posts) SelectedUser() *int {
	s.filterMu.Lock()
	defer s.filterMu.Unlock()

	return copyInt(s.selected)
}

// Filtered returns the posts of the selected author, or every post.
func (s *Posts) Filtered() []admin.Post {
	selected := s.SelectedUser()
	posts := s.Items()

	if selected == nil {
		return posts
	}

	filtered := make([]admin.Post, 0, len(posts))
	for _, p := range posts {
		if p.UserID == *selected {
			filtered = append(filtered, p)
		}
	}

	return filtered
}

// Create creates a post and appends it to the collection.
func (s *Posts) Create(ctx context.Context, input *admin.NewPost) (*admin.Post, error) {
	s.clearErr()

	created, err := s.client.Create(ctx, input)
	if err != nil {
		s.fail(err, "Failed to create post")

		return nil, err
	}

	s.appendItem(*created)
	s.publish(ctx, events.ActionCreated, created.ID, created)

	return created, nil
}

// Update patches a post and merges the response into the matching entry.
func (s *Posts) Update(ctx context.Context, id int, input *admin.PostUpdate) (*admin.Post, error) {
	s.clearErr()

	updated, err := s.client.Update(ctx, id, input)
	if err != nil {
		s.fail(err, "Failed to update post")

		return nil, err
	}

	s.replace(id, func(p admin.Post) admin.Post { return p.Merge(*updated) })
	s.publish(ctx, events.ActionUpdated, id, updated)

	return updated, nil
}

// Remove deletes a post and drops every entry with its id.
func (s *Posts) Remove(ctx context.Context, id int) error {
	s.clearErr()

	err := s.client.Delete(ctx, id)
	if err != nil {
		s.fail(err, "Failed to delete post")

		return err
	}

	s.removeID(id)
	s.publish(ctx, events.ActionDeleted, id, nil)

	return nil
}

// ReloadOne fetches a post and replaces the matching entry.
func (s *Posts) ReloadOne(ctx context.Context, id int) (*admin.Post, error) {
	s.clearErr()

	fresh, err := s.client.Get(ctx, id)
	if err != nil {
		s.fail(err, "Failed to reload post")

		return nil, err
	}

	s.replace(id, func(admin.Post) admin.Post { return *fresh })
	s.publish(ctx, events.ActionReloaded, id, fresh)

	return fresh, nil
}

func sameSelection(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}

	out := *v

	return &out
}
