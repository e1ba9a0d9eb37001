package store

import (
	"context"

	"github.com/fivetwenty-io/crudadmin/internal/events"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

// Users is the users collection bound to the users API.
type Users struct {
	*collection[admin.User]

	client admin.UsersClient
}

// NewUsers creates an empty users store.
func NewUsers(client admin.UsersClient, opts *Options) *Users {
	return &Users{
		collection: newCollection(events.ResourceUser, func(u admin.User) int { return u.ID }, opts),
		client:     client,
	}
}

// Load replaces the collection with the users returned by the API.
func (s *Users) Load(ctx context.Context) error {
	s.startLoad()

	users, err := s.client.List(ctx)
	if err != nil {
		s.failLoad(err, "Failed to load users")

		return err
	}

	s.finishLoad(users)

	return nil
}

// Create creates a user and appends it to the collection.
func (s *Users) Create(ctx context.Context, input *admin.NewUser) (*admin.User, error) {
	s.clearErr()

	created, err := s.client.Create(ctx, input)
	if err != nil {
		s.fail(err, "Failed to create user")

		return nil, err
	}

	s.appendItem(*created)
	s.publish(ctx, events.ActionCreated, created.ID, created)

	return created, nil
}

// Update patches a user and merges the response into the matching entry.
func (s *Users) Update(ctx context.Context, id int, input *admin.UserUpdate) (*admin.User, error) {
	s.clearErr()

	updated, err := s.client.Update(ctx, id, input)
	if err != nil {
		s.fail(err, "Failed to update user")

		return nil, err
	}

	s.replace(id, func(u admin.User) admin.User { return u.Merge(*updated) })
	s.publish(ctx, events.ActionUpdated, id, updated)

	return updated, nil
}

// Remove deletes a user and drops every entry with its id.
func (s *Users) Remove(ctx context.Context, id int) error {
	s.clearErr()

	err := s.client.Delete(ctx, id)
	if err != nil {
		s.fail(err, "Failed to delete user")

		return err
	}

	s.removeID(id)
	s.publish(ctx, events.ActionDeleted, id, nil)

	return nil
}

// ReloadOne fetches a user and replaces the matching entry.
func (s *Users) ReloadOne(ctx context.Context, id int) (*admin.User, error) {
	s.clearErr()

	fresh, err := s.client.Get(ctx, id)
	if err != nil {
		s.fail(err, "Failed to reload user")

		return nil, err
	}

	s.replace(id, func(admin.User) admin.User { return *fresh })
	s.publish(ctx, events.ActionReloaded, id, fresh)

	return fresh, nil
}

// Names maps user ids to display names.
func (s *Users) Names() map[int]string {
	users := s.Items()

	names := make(map[int]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	return names
}
