package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page templates. Each is rendered inside layout.html.
const (
	pageHome     = "home.html"
	pageUsers    = "users.html"
	pagePosts    = "posts.html"
	pageNotFound = "notfound.html"
)

// Navigation identifiers.
const (
	navHome  = "home"
	navUsers = "users"
	navPosts = "posts"
)

// PageData is passed to the layout template.
type PageData struct {
	Title     string
	ActiveNav string
	// Collapsed is the persisted sidebar flag.
	Collapsed bool
	// Pending is the number of in-flight API requests at render time.
	Pending int
	// Path is the current request URI, used to come back after a sidebar toggle.
	Path    string
	Content interface{}
}

type templates struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"truncate": truncate,
	"initial":  initial,
	"title":    title,
}

func parseTemplates() (*templates, error) {
	pages := make(map[string]*template.Template)

	for _, page := range []string{pageHome, pageUsers, pagePosts, pageNotFound} {
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		pages[page] = tmpl
	}

	return &templates{pages: pages}, nil
}

// render executes page inside the layout. Output is buffered so that a
// template error never produces a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, title, nav string, content interface{}) {
	data := PageData{
		Title:     title,
		ActiveNav: nav,
		Collapsed: sidebarCollapsed(r),
		Pending:   s.loading.Pending(),
		Path:      r.URL.RequestURI(),
		Content:   content,
	}

	var buf bytes.Buffer

	err := s.templates.pages[page].ExecuteTemplate(&buf, "layout.html", data)
	if err != nil {
		s.logger.Error("failed to render page", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, pageNotFound, "Page Not Found", "", nil)
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= constants.StringTruncationLength {
		return s
	}

	runes := []rune(s)

	return strings.TrimSpace(string(runes[:constants.StringTruncationLength])) + "…"
}

// title upper-cases the first letter of each word, e.g. "card" to "Card".
func title(s string) string {
	return cases.Title(language.English).String(s)
}

func initial(s string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s))
	if r == utf8.RuneError {
		return "?"
	}

	return strings.ToUpper(string(r))
}
