package web

import (
	"net/url"
	"slices"
	"strconv"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
)

// List layouts.
const (
	LayoutModern = "modern"
	LayoutCard   = "card"
	LayoutRow    = "row"
)

// Layouts lists the selectable list layouts, default first.
var Layouts = []string{LayoutModern, LayoutCard, LayoutRow}

// ParseLayout returns layout when known, LayoutModern otherwise.
func ParseLayout(layout string) string {
	if slices.Contains(Layouts, layout) {
		return layout
	}

	return LayoutModern
}

// listState is the transient UI state of a list page carried in the query
// string. Links built from it keep the layout and the author filter.
type listState struct {
	Path   string
	Layout string
	Page   int
	Rev    uint64
	UserID *int
}

func newListState(path string, query url.Values) listState {
	state := listState{
		Path:   path,
		Layout: ParseLayout(query.Get(constants.QueryLayout)),
		Page:   1,
	}

	if id, ok := queryID(query, constants.QueryUserID); ok {
		state.UserID = &id
	}

	return state
}

func (s listState) values() url.Values {
	values := url.Values{}

	if s.Layout != LayoutModern {
		values.Set(constants.QueryLayout, s.Layout)
	}

	if s.UserID != nil {
		values.Set(constants.QueryUserID, strconv.Itoa(*s.UserID))
	}

	return values
}

func (s listState) current() url.Values {
	values := s.values()

	if s.Page > 1 {
		values.Set(constants.QueryPage, strconv.Itoa(s.Page))
		values.Set(constants.QueryRev, strconv.FormatUint(s.Rev, 10))
	}

	return values
}

func build(path string, values url.Values) string {
	if encoded := values.Encode(); encoded != "" {
		return path + "?" + encoded
	}

	return path
}

// ListURL is the list on page 1 with no item selected.
func (s listState) ListURL() string {
	return build(s.Path, s.values())
}

// CurrentURL is the list on the current page with no item selected.
func (s listState) CurrentURL() string {
	return build(s.Path, s.current())
}

// PageURL links to page, tagged with the collection version.
func (s listState) PageURL(page int) string {
	values := s.values()
	values.Set(constants.QueryPage, strconv.Itoa(page))
	values.Set(constants.QueryRev, strconv.FormatUint(s.Rev, 10))

	return build(s.Path, values)
}

// EditURL opens the edit form for id.
func (s listState) EditURL(id int) string {
	values := s.current()
	values.Set(constants.QueryEdit, strconv.Itoa(id))

	return build(s.Path, values)
}

// ViewURL opens the detail view for id.
func (s listState) ViewURL(id int) string {
	values := s.current()
	values.Set(constants.QueryView, strconv.Itoa(id))

	return build(s.Path, values)
}

// LayoutURL switches to layout, staying on the current page.
func (s listState) LayoutURL(layout string) string {
	next := s
	next.Layout = ParseLayout(layout)

	return build(s.Path, next.current())
}

// Action is the target of a form posted from this list.
func (s listState) Action(path string) string {
	return build(path, s.values())
}

func queryID(query url.Values, key string) (int, bool) {
	raw := query.Get(key)
	if raw == "" {
		return 0, false
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}
