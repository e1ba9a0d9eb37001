package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/crudadmin/internal/config"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// fakeAPI serves a fixed set of users and posts and records every call.
type fakeAPI struct {
	mu       sync.Mutex
	users    []admin.User
	posts    []admin.Post
	calls    []string
	failures map[string]int
}

func newFakeAPI(users, posts int) *fakeAPI {
	api := &fakeAPI{failures: make(map[string]int)}

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

func (a *fakeAPI) handler() http.Handler {
	r := chi.NewRouter()

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			a.mu.Lock()

			call := req.Method + " " + req.URL.Path
			if req.URL.RawQuery != "" {
				call += "?" + req.URL.RawQuery
			}

			a.calls = append(a.calls, call)
			status, failing := a.failures[req.Method+" "+req.URL.Path]
			a.mu.Unlock()

			if failing {
				w.WriteHeader(status)
				_, _ = io.WriteString(w, `{"message":"upstream said no"}`)

				return
			}

			next.ServeHTTP(w, req)
		})
	})

	r.Get("/users", func(w http.ResponseWriter, _ *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()

		writeTestJSON(w, http.StatusOK, a.users)
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()

		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		for _, u := range a.users {
			if u.ID == id {
				writeTestJSON(w, http.StatusOK, u)

				return
			}
		}

		w.WriteHeader(http.StatusNotFound)
	})
	r.Post("/users", func(w http.ResponseWriter, req *http.Request) {
		var user admin.User

		_ = json.NewDecoder(req.Body).Decode(&user)
		user.ID = 1001
		writeTestJSON(w, http.StatusCreated, user)
	})
	r.Patch("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		var patch admin.User

		_ = json.NewDecoder(req.Body).Decode(&patch)
		patch.ID, _ = strconv.Atoi(chi.URLParam(req, "id"))
		writeTestJSON(w, http.StatusOK, patch)
	})
	r.Delete("/users/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/posts", func(w http.ResponseWriter, req *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()

		posts := a.posts

		if raw := req.URL.Query().Get("userId"); raw != "" {
			userID, _ := strconv.Atoi(raw)
			posts = []admin.Post{}

			for _, p := range a.posts {
				if p.UserID == userID {
					posts = append(posts, p)
				}
			}
		}

		writeTestJSON(w, http.StatusOK, posts)
	})
	r.Get("/posts/{id}", func(w http.ResponseWriter, req *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()

		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		for _, p := range a.posts {
			if p.ID == id {
				writeTestJSON(w, http.StatusOK, p)

				return
			}
		}

		w.WriteHeader(http.StatusNotFound)
	})
	r.Post("/posts", func(w http.ResponseWriter, req *http.Request) {
		var post admin.Post

		_ = json.NewDecoder(req.Body).Decode(&post)
		post.ID = 101
		writeTestJSON(w, http.StatusCreated, post)
	})
	r.Patch("/posts/{id}", func(w http.ResponseWriter, req *http.Request) {
		var patch admin.Post

		_ = json.NewDecoder(req.Body).Decode(&patch)
		patch.ID, _ = strconv.Atoi(chi.URLParam(req, "id"))
		writeTestJSON(w, http.StatusOK, patch)
	})
	r.Delete("/posts/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}

func (a *fakeAPI) fail(method, path string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.failures[method+" "+path] = status
}

func (a *fakeAPI) called(call string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, c := range a.calls {
		if c == call {
			return true
		}
	}

	return false
}

func writeTestJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// useAPI points the global configuration at a fake API for one test. Tests
// that call it share viper's global state and must not run in parallel.
func useAPI(t *testing.T, api *fakeAPI, output string) {
	t.Helper()

	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	useConfig(t, output)
	viper.Set(config.KeyAPIURL, server.URL)
}

func useConfig(t *testing.T, output string) {
	t.Helper()

	viper.Reset()
	config.SetDefaults(viper.GetViper())
	viper.Set(config.KeyOutput, output)
	viper.Set(config.KeyLogLevel, "error")
	t.Cleanup(viper.Reset)
}

// run executes cmd with args and returns what it printed.
func run(cmd *cobra.Command, stdin string, args ...string) (string, error) {
	var out bytes.Buffer

	// A nil slice makes cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}

	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()

	return out.String(), err
}
