package store

import (
	"context"
	"errors"
	"sync"

	"github.com/fivetwenty-io/crudadmin/internal/events"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

var errPublish = errors.New("nats down")

type fakeUsersClient struct {
	users     []admin.User
	err       error
	listCalls int
	nextID    int
}

func (f *fakeUsersClient) List(ctx context.Context) ([]admin.User, error) {
	f.listCalls++

	if f.err != nil {
		return nil, f.err
	}

	return append([]admin.User(nil), f.users...), nil
}

func (f *fakeUsersClient) Get(ctx context.Context, id int) (*admin.User, error) {
	if f.err != nil {
		return nil, f.err
	}

	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}

	return nil, admin.NewAPIError(404, "Not Found", admin.ErrUserNotFound)
}

func (f *fakeUsersClient) Create(ctx context.Context, in *admin.NewUser) (*admin.User, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.nextID++

	return &admin.User{ID: f.nextID, Name: in.Name, Username: in.Username, Email: in.Email}, nil
}

func (f *fakeUsersClient) Update(ctx context.Context, id int, in *admin.UserUpdate) (*admin.User, error) {
	if f.err != nil {
		return nil, f.err
	}

	out := admin.User{ID: id}
	if in.Name != nil {
		out.Name = *in.Name
	}

	if in.Email != nil {
		out.Email = *in.Email
	}

	return &out, nil
}

func (f *fakeUsersClient) Delete(ctx context.Context, id int) error {
	return f.err
}

type fakePostsClient struct {
	posts      []admin.Post
	err        error
	listCalls  int
	byUser     []int
	createdSeq int
}

func (f *fakePostsClient) List(ctx context.Context) ([]admin.Post, error) {
	f.listCalls++

	if f.err != nil {
		return nil, f.err
	}

	return append([]admin.Post(nil), f.posts...), nil
}

func (f *fakePostsClient) ListByUser(ctx context.Context, userID int) ([]admin.Post, error) {
	f.byUser = append(f.byUser, userID)

	if f.err != nil {
		return nil, f.err
	}

	var out []admin.Post

	for _, p := range f.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}

	return out, nil
}

func (f *fakePostsClient) Get(ctx context.Context, id int) (*admin.Post, error) {
	if f.err != nil {
		return nil, f.err
	}

	for _, p := range f.posts {
		if p.ID == id {
			return &p, nil
		}
	}

	return nil, admin.NewAPIError(404, "Not Found", admin.ErrPostNotFound)
}

func (f *fakePostsClient) Create(ctx context.Context, in *admin.NewPost) (*admin.Post, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.createdSeq++

	return &admin.Post{ID: 100 + f.createdSeq, UserID: in.UserID, Title: in.Title, Body: in.Body}, nil
}

func (f *fakePostsClient) Update(ctx context.Context, id int, in *admin.PostUpdate) (*admin.Post, error) {
	if f.err != nil {
		return nil, f.err
	}

	out := admin.Post{ID: id}
	if in.Title != nil {
		out.Title = *in.Title
	}

	return &out, nil
}

func (f *fakePostsClient) Delete(ctx context.Context, id int) error {
	return f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}

	p.events = append(p.events, event)

	return nil
}

func (p *recordingPublisher) Close() error {
	return nil
}

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(string, map[string]interface{}) {}
func (l *recordingLogger) Info(string, map[string]interface{})  {}
func (l *recordingLogger) Error(string, map[string]interface{}) {}

func (l *recordingLogger) Warn(msg string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.warns = append(l.warns, msg)
}
