// Package pagination slices in-memory collections into fixed-size pages with
// prev/next navigation.
package pagination

import (
	"net/http"
	"strconv"

	"github.com/fivetwenty-io/crudadmin/internal/constants"
)

// Page is one page of a collection.
type Page[T any] struct {
	Items      []T `json:"items"       yaml:"items"`
	Number     int `json:"page"        yaml:"page"`
	TotalPages int `json:"total_pages" yaml:"total_pages"`
	Total      int `json:"total"       yaml:"total"`
	PageSize   int `json:"page_size"   yaml:"page_size"`
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool {
	return p.Number > 1
}

// HasNext reports whether a next page exists.
func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

// Prev returns the previous page number, clamped to 1.
func (p Page[T]) Prev() int {
	return Clamp(p.Number-1, p.TotalPages)
}

// Next returns the next page number, clamped to the last page.
func (p Page[T]) Next() int {
	return Clamp(p.Number+1, p.TotalPages)
}

// TotalPages returns max(1, ceil(total/pageSize)).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}

	pages := total / pageSize
	if total%pageSize > 0 {
		pages++
	}

	return pages
}

// Clamp bounds page to [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}

	switch {
	case page < 1:
		return 1
	case page > totalPages:
		return totalPages
	default:
		return page
	}
}

// Paginate returns the requested page of items using the fixed page size.
func Paginate[T any](items []T, page int) Page[T] {
	return PaginateSize(items, page, constants.PageSize)
}

// PaginateSize returns the requested page of items. page is clamped.
func PaginateSize[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = constants.PageSize
	}

	total := len(items)
	totalPages := TotalPages(total, pageSize)
	page = Clamp(page, totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	visible := make([]T, 0, end-start)
	visible = append(visible, items[start:end]...)

	return Page[T]{
		Items:      visible,
		Number:     page,
		TotalPages: totalPages,
		Total:      total,
		PageSize:   pageSize,
	}
}

// Resolve picks the page to render for a request. The requested page applies
// only while rev still matches the collection version; otherwise the
// collection changed since the link was rendered and page 1 is shown.
func Resolve(requested int, rev string, version uint64, total int) int {
	if rev != "" && rev != strconv.FormatUint(version, 10) {
		return 1
	}

	return Clamp(requested, TotalPages(total, constants.PageSize))
}

// FromRequest reads the page and rev query parameters.
func FromRequest(r *http.Request) (int, string) {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get(constants.QueryPage))
	if err != nil || page < 1 {
		page = 1
	}

	return page, query.Get(constants.QueryRev)
}
