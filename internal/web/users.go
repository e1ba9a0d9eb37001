package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/internal/forms"
	"github.com/fivetwenty-io/crudadmin/internal/pagination"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

const usersPath = "/users"

type usersContent struct {
	Status     admin.Status
	Error      string
	Form       *forms.UserForm
	FormAction string
	Page       pagination.Page[admin.User]
	State      listState
	Layouts    []string

	Viewing          *admin.User
	ViewingPostCount int
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.loadUsers(r.Context(), wantsReload(r))
	s.renderUsers(w, r, http.StatusOK, nil)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	form := s.userForm(r, nil)

	ok := form.Submit(r.Context(), func(ctx context.Context, f *forms.UserForm) error {
		_, err := s.users.Create(ctx, f.NewUser())

		return err
	})

	s.finishUserSubmit(w, r, form, ok)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)

		return
	}

	form := s.userForm(r, &admin.User{ID: id})

	ok = form.Submit(r.Context(), func(ctx context.Context, f *forms.UserForm) error {
		_, err := s.users.Update(ctx, id, f.Update())

		return err
	})

	s.finishUserSubmit(w, r, form, ok)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)

		return
	}

	err := s.users.Remove(r.Context(), id)
	if err != nil {
		s.logger.Warn("failed to delete user", zap.Int("id", id), zap.Error(err))
		s.renderUsers(w, r, http.StatusBadGateway, nil)

		return
	}

	s.redirectToList(w, r, usersPath)
}

// userForm reads the posted fields. A non-nil seed selects update mode.
func (s *Server) userForm(r *http.Request, seed *admin.User) *forms.UserForm {
	form := forms.NewUserForm(seed)
	form.Name = r.PostFormValue("name")
	form.Username = r.PostFormValue("username")
	form.Email = r.PostFormValue("email")
	form.Logger = s.adminLogger()

	return form
}

func (s *Server) finishUserSubmit(w http.ResponseWriter, r *http.Request, form *forms.UserForm, ok bool) {
	if ok {
		s.redirectToList(w, r, usersPath)

		return
	}

	status := http.StatusUnprocessableEntity
	if form.SubmitErr != "" {
		status = http.StatusBadGateway
	}

	s.renderUsers(w, r, status, form)
}

// renderUsers renders the users page. A nil form is resolved from the edit
// query parameter.
func (s *Server) renderUsers(w http.ResponseWriter, r *http.Request, status int, form *forms.UserForm) {
	query := r.URL.Query()
	state := newListState(usersPath, query)
	users := s.users.Items()

	requested, rev := pagination.FromRequest(r)
	state.Rev = s.users.Version()
	state.Page = pagination.Resolve(requested, rev, state.Rev, len(users))

	if form == nil {
		form = forms.NewUserForm(nil)

		if id, ok := queryID(query, constants.QueryEdit); ok {
			if user, found := s.users.Find(id); found {
				form = forms.NewUserForm(&user)
			}
		}
	}

	content := usersContent{
		Status:     s.users.Status(),
		Error:      firstNonEmpty(s.users.Err(), form.SubmitErr),
		Form:       form,
		FormAction: state.Action(usersPath),
		Page:       pagination.Paginate(users, state.Page),
		State:      state,
		Layouts:    Layouts,
	}

	if form.Mode == forms.ModeUpdate {
		content.FormAction = state.Action(fmt.Sprintf("%s/%d", usersPath, form.ID))
	}

	if id, ok := queryID(query, constants.QueryView); ok {
		if user, found := s.users.Find(id); found {
			content.Viewing = &user
			content.ViewingPostCount = s.postCount(r.Context(), id)
		}
	}

	s.render(w, r, status, pageUsers, "Users", navUsers, content)
}

// postCount counts the posts of userID. A filtered or unloaded posts
// collection is refreshed with every post first.
func (s *Server) postCount(ctx context.Context, userID int) int {
	if s.posts.NeedsLoad() || s.posts.SelectedUser() != nil {
		err := s.posts.Load(ctx)
		if err != nil {
			s.logger.Warn("failed to load posts", zap.Error(err))
		}
	}

	count := 0

	for _, post := range s.posts.Items() {
		if post.UserID == userID {
			count++
		}
	}

	return count
}

// loadUsers fetches the users when never loaded, after a failure, or when
// forced. Failures are recorded by the store.
func (s *Server) loadUsers(ctx context.Context, force bool) {
	if !force && !s.users.NeedsLoad() {
		return
	}

	err := s.users.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load users", zap.Error(err))
	}
}

func (s *Server) redirectToList(w http.ResponseWriter, r *http.Request, path string) {
	state := newListState(path, r.URL.Query())
	http.Redirect(w, r, state.ListURL(), http.StatusSeeOther)
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

func wantsReload(r *http.Request) bool {
	return r.URL.Query().Get(constants.QueryReload) == "1"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
