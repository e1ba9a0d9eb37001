package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
)

// PendingStatus is the body of GET /status/pending.
type PendingStatus struct {
	Pending int `json:"pending"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) pendingStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	s.writeJSON(w, http.StatusOK, PendingStatus{Pending: s.loading.Pending()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		s.logger.Warn("failed to write JSON response", zap.Error(err))
	}
}

// toggleSidebar flips the persisted sidebar flag and returns to the page the
// toggle was posted from.
func (s *Server) toggleSidebar(w http.ResponseWriter, r *http.Request) {
	value := "1"
	if sidebarCollapsed(r) {
		value = "0"
	}

	http.SetCookie(w, &http.Cookie{
		Name:     constants.SidebarCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   constants.SidebarCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, localRedirect(r.PostFormValue("redirect")), http.StatusSeeOther)
}

// sidebarCollapsed reads the persisted flag. Anything but "1" is expanded.
func sidebarCollapsed(r *http.Request) bool {
	cookie, err := r.Cookie(constants.SidebarCookie)
	if err != nil {
		return false
	}

	return cookie.Value == "1"
}

// localRedirect keeps redirects on this host.
func localRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}

	return target
}
