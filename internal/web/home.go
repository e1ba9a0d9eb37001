package web

import (
	"net/http"

	"golang.org/x/sync/errgroup"
)

type homeContent struct {
	Users      int
	Posts      int
	UsersError string
	PostsError string
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	reload := wantsReload(r)

	// Failures are recorded on the stores, so neither load returns an error.
	var eg errgroup.Group

	eg.Go(func() error {
		s.loadUsers(r.Context(), reload)

		return nil
	})
	eg.Go(func() error {
		s.loadAllPosts(r.Context(), reload)

		return nil
	})

	_ = eg.Wait()

	s.render(w, r, http.StatusOK, pageHome, "Home", navHome, homeContent{
		Users:      s.users.Len(),
		Posts:      s.posts.Len(),
		UsersError: s.users.Err(),
		PostsError: s.posts.Err(),
	})
}
