package web_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fivetwenty-io/crudadmin/internal/metrics"
	"github.com/fivetwenty-io/crudadmin/internal/store"
	"github.com/fivetwenty-io/crudadmin/internal/web"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
	"github.com/fivetwenty-io/crudadmin/pkg/adminclient"
)

// fakeAPI is an in-memory users/posts REST API.
type fakeAPI struct {
	mu     sync.Mutex
	users  []admin.User
	posts  []admin.Post
	nextID int
	calls  []string
	bodies map[string]string
	// failures maps "METHOD /path" to a status to answer with.
	failures map[string]int
}

func newFakeAPI(users, posts int) *fakeAPI {
	api := &fakeAPI{
		nextID:   1000,
		bodies:   make(map[string]string),
		failures: make(map[string]int),
	}

	for i := 1; i <= users; i++ {
		api.users = append(api.users, admin.User{
			ID:       i,
			Name:     fmt.Sprintf("User %02d", i),
			Username: fmt.Sprintf("user_%02d", i),
			Email:    fmt.Sprintf("user%02d@example.com", i),
		})
	}

	for i := 1; i <= posts; i++ {
		api.posts = append(api.posts, admin.Post{
			ID:     i,
			UserID: (i-1)%2 + 1,
			Title:  fmt.Sprintf("Post %02d", i),
			Body:   "Body of post " + strconv.Itoa(i),
		})
	}

	return api
}

func (a *fakeAPI) fail(method, path string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.failures[method+" "+path] = status
}

func (a *fakeAPI) callCount(call string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	count := 0

	for _, c := range a.calls {
		if c == call {
			count++
		}
	}

	return count
}

func (a *fakeAPI) lastBody(call string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.bodies[call]
}

//nolint:funlen,cyclop // Test functions can be longer for comprehensive testing
func (a *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	call := r.Method + " " + r.URL.Path
	if r.URL.RawQuery != "" {
		call += "?" + r.URL.RawQuery
	}

	a.calls = append(a.calls, call)

	body, _ := io.ReadAll(r.Body)
	a.bodies[r.Method+" "+r.URL.Path] = string(body)

	if status, ok := a.failures[r.Method+" "+r.URL.Path]; ok {
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"message":"upstream said no"}`)

		return
	}

	resource, rawID, _ := strings.Cut(strings.Trim(r.URL.Path, "/"), "/")
	id, _ := strconv.Atoi(rawID)

	switch resource {
	case "users":
		a.serveUsers(w, r, id, body)
	case "posts":
		a.servePosts(w, r, id, body)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (a *fakeAPI) serveUsers(w http.ResponseWriter, r *http.Request, id int, body []byte) {
	switch {
	case r.Method == http.MethodGet && id == 0:
		writeJSON(w, http.StatusOK, a.users)
	case r.Method == http.MethodPost:
		var user admin.User

		_ = json.Unmarshal(body, &user)
		a.nextID++
		user.ID = a.nextID
		a.users = append(a.users, user)
		writeJSON(w, http.StatusCreated, user)
	case r.Method == http.MethodPatch:
		var patch admin.User

		_ = json.Unmarshal(body, &patch)
		patch.ID = id
		writeJSON(w, http.StatusOK, patch)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *fakeAPI) servePosts(w http.ResponseWriter, r *http.Request, id int, body []byte) {
	switch {
	case r.Method == http.MethodGet && id == 0:
		posts := a.posts

		if raw := r.URL.Query().Get("userId"); raw != "" {
			userID, _ := strconv.Atoi(raw)
			posts = nil

			for _, p := range a.posts {
				if p.UserID == userID {
					posts = append(posts, p)
				}
			}
		}

		writeJSON(w, http.StatusOK, posts)
	case r.Method == http.MethodPost:
		var post admin.Post

		_ = json.Unmarshal(body, &post)
		a.nextID++
		post.ID = a.nextID
		a.posts = append(a.posts, post)
		writeJSON(w, http.StatusCreated, post)
	case r.Method == http.MethodPatch:
		var patch admin.Post

		_ = json.Unmarshal(body, &patch)
		patch.ID = id
		writeJSON(w, http.StatusOK, patch)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type testConsole struct {
	api     *fakeAPI
	handler http.Handler
	users   *store.Users
	posts   *store.Posts
	loading *admin.PendingCounter
	metrics *metrics.Collector
}

func newTestConsole(t *testing.T, api *fakeAPI) *testConsole {
	t.Helper()

	apiServer := httptest.NewServer(api)
	t.Cleanup(apiServer.Close)

	loading := admin.NewPendingCounter()
	collector := metrics.NewCollector("crudadmin")

	client, err := adminclient.New(context.Background(), &admin.Config{
		APIEndpoint:          apiServer.URL,
		Loading:              loading,
		ResponseInterceptors: []admin.ResponseInterceptor{collector.ResponseInterceptor()},
	})
	require.NoError(t, err)

	users := store.NewUsers(client.Users(), nil)
	posts := store.NewPosts(client.Posts(), nil)

	server, err := web.NewServer(web.Config{
		Users:   users,
		Posts:   posts,
		Loading: loading,
		Metrics: collector,
		Logger:  zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	return &testConsole{
		api:     api,
		handler: server.Handler(),
		users:   users,
		posts:   posts,
		loading: loading,
		metrics: collector,
	}
}

func (c *testConsole) get(t *testing.T, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	return rec
}

func (c *testConsole) post(t *testing.T, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	return rec
}
