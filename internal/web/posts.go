package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/internal/forms"
	"github.com/fivetwenty-io/crudadmin/internal/pagination"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

const postsPath = "/posts"

// postRow is a post with its resolved author name.
type postRow struct {
	admin.Post

	Author string
}

type postsContent struct {
	Status     admin.Status
	Error      string
	Form       *forms.PostForm
	FormAction string
	Page       pagination.Page[postRow]
	State      listState
	Layouts    []string
	Users      []admin.User
	SelectedID int

	Viewing *postRow
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := newListState(postsPath, r.URL.Query())

	if wantsReload(r) {
		s.posts.Invalidate()
	}

	err := s.posts.FilterByUser(ctx, state.UserID)
	if err != nil {
		s.logger.Warn("failed to filter posts", zap.Error(err))
	}

	s.loadUsers(ctx, false)
	s.renderPosts(w, r, http.StatusOK, nil)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	form := s.postForm(r, nil)

	ok := form.Submit(r.Context(), func(ctx context.Context, f *forms.PostForm) error {
		_, err := s.posts.Create(ctx, f.NewPost())

		return err
	})

	s.finishPostSubmit(w, r, form, ok)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)

		return
	}

	form := s.postForm(r, &admin.Post{ID: id})

	ok = form.Submit(r.Context(), func(ctx context.Context, f *forms.PostForm) error {
		_, err := s.posts.Update(ctx, id, f.Update())

		return err
	})

	s.finishPostSubmit(w, r, form, ok)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)

		return
	}

	err := s.posts.Remove(r.Context(), id)
	if err != nil {
		s.logger.Warn("failed to delete post", zap.Int("id", id), zap.Error(err))
		s.renderPosts(w, r, http.StatusBadGateway, nil)

		return
	}

	s.redirectToList(w, r, postsPath)
}

// postForm reads the posted fields. A non-nil seed selects update mode.
func (s *Server) postForm(r *http.Request, seed *admin.Post) *forms.PostForm {
	form := forms.NewPostForm(seed, s.users.Items())
	form.Title = r.PostFormValue("title")
	form.Body = r.PostFormValue("body")
	form.Logger = s.adminLogger()

	userID, err := strconv.Atoi(r.PostFormValue("userId"))
	if err != nil {
		userID = 0
	}

	form.UserID = userID

	return form
}

func (s *Server) finishPostSubmit(w http.ResponseWriter, r *http.Request, form *forms.PostForm, ok bool) {
	if ok {
		s.redirectToList(w, r, postsPath)

		return
	}

	status := http.StatusUnprocessableEntity
	if form.SubmitErr != "" {
		status = http.StatusBadGateway
	}

	s.renderPosts(w, r, status, form)
}

// renderPosts renders the posts page. A nil form is resolved from the edit
// query parameter.
func (s *Server) renderPosts(w http.ResponseWriter, r *http.Request, status int, form *forms.PostForm) {
	query := r.URL.Query()
	state := newListState(postsPath, query)
	users := s.users.Items()
	names := s.users.Names()

	posts := s.posts.Filtered()
	rows := make([]postRow, 0, len(posts))

	for _, post := range posts {
		rows = append(rows, postRow{Post: post, Author: authorName(names, post.UserID)})
	}

	requested, rev := pagination.FromRequest(r)
	state.Rev = s.posts.Version()
	state.Page = pagination.Resolve(requested, rev, state.Rev, len(rows))

	if form == nil {
		form = forms.NewPostForm(nil, users)

		if id, ok := queryID(query, constants.QueryEdit); ok {
			if post, found := s.posts.Find(id); found {
				form = forms.NewPostForm(&post, users)
			}
		}
	}

	content := postsContent{
		Status:     s.posts.Status(),
		Error:      firstNonEmpty(s.posts.Err(), form.SubmitErr),
		Form:       form,
		FormAction: state.Action(postsPath),
		Page:       pagination.Paginate(rows, state.Page),
		State:      state,
		Layouts:    Layouts,
		Users:      users,
	}

	if state.UserID != nil {
		content.SelectedID = *state.UserID
	}

	if form.Mode == forms.ModeUpdate {
		content.FormAction = state.Action(fmt.Sprintf("%s/%d", postsPath, form.ID))
	}

	if id, ok := queryID(query, constants.QueryView); ok {
		if post, found := s.posts.Find(id); found {
			content.Viewing = &postRow{Post: post, Author: authorName(names, post.UserID)}
		}
	}

	s.render(w, r, status, pagePosts, "Posts", navPosts, content)
}

// loadAllPosts clears the author filter and fetches every post unless the
// unfiltered list is already loaded. force always refetches.
func (s *Server) loadAllPosts(ctx context.Context, force bool) {
	if force {
		s.posts.Invalidate()
	}

	err := s.posts.FilterByUser(ctx, nil)
	if err != nil {
		s.logger.Warn("failed to load posts", zap.Error(err))
	}
}

// authorName resolves userID against names.
func authorName(names map[int]string, userID int) string {
	if name, ok := names[userID]; ok {
		return name
	}

	return fmt.Sprintf(constants.UnknownUserFormat, userID)
}
