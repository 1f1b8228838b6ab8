package domain

import (
	"math"
	"slices"
	"strings"
)

// Pagination defaults shared by every listing.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 100
	MaxPageNumber     = 1_000_000

	SortAsc  = "asc"
	SortDesc = "desc"
)

// QueryParams describes one listing request: which window of the result set to
// return, how to order it, and an optional free-text filter.
type QueryParams struct {
	PageNumber    int
	PageSize      int
	SortBy        string
	SortDirection string
	SearchTerm    string
}

// Normalize returns a copy with defaults applied and ranges clamped.
// Sort direction is case-insensitive; anything other than "desc" becomes "asc".
// A blank search term or sort key is cleared.
func (p QueryParams) Normalize() QueryParams {
	if p.PageNumber < 1 {
		p.PageNumber = DefaultPageNumber
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.SortBy = strings.TrimSpace(p.SortBy)
	p.SearchTerm = strings.TrimSpace(p.SearchTerm)
	if p.Descending() {
		p.SortDirection = SortDesc
	} else {
		p.SortDirection = SortAsc
	}
	return p
}

// Descending reports whether the requested direction is "desc" (any case).
func (p QueryParams) Descending() bool {
	return strings.EqualFold(strings.TrimSpace(p.SortDirection), SortDesc)
}

// Offset is the number of records skipped before the current window. It
// saturates at math.MaxInt instead of overflowing.
func (p QueryParams) Offset() int {
	if p.PageNumber < 1 || p.PageSize < 1 {
		return 0
	}
	if p.PageNumber-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.PageNumber - 1) * p.PageSize
}

// LinkParams returns the query parameters a navigation link must carry so the
// linked page keeps the same filter and ordering. Blank values are omitted and
// the default direction is left implicit.
func (p QueryParams) LinkParams() map[string]string {
	params := make(map[string]string, 3)
	if term := strings.TrimSpace(p.SearchTerm); term != "" {
		params["searchTerm"] = term
	}
	if sortBy := strings.TrimSpace(p.SortBy); sortBy != "" {
		params["sortBy"] = sortBy
	}
	if p.Descending() {
		params["sortDirection"] = SortDesc
	}
	return params
}

// Page is one window of a filtered, ordered result set plus its pagination
// metadata. It is immutable once built; navigation links are produced
// separately from its metadata.
type Page[T any] struct {
	items      []T
	pageNumber int
	pageSize   int
	totalItems int64
	totalPages int
}

// NewPage builds a Page for the given window. totalItems counts the whole
// filtered set, not just items.
func NewPage[T any](items []T, pageNumber, pageSize int, totalItems int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 && totalItems > 0 {
		totalPages = int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	}
	return &Page[T]{
		items:      items,
		pageNumber: pageNumber,
		pageSize:   pageSize,
		totalItems: totalItems,
		totalPages: totalPages,
	}
}

// EmptyPage is the page returned when a listing matches nothing.
func EmptyPage[T any](params QueryParams) *Page[T] {
	return NewPage[T](nil, params.PageNumber, params.PageSize, 0)
}

// Items returns a copy of the records in this window.
func (p *Page[T]) Items() []T { return slices.Clone(p.items) }

// Len is the number of records in this window.
func (p *Page[T]) Len() int { return len(p.items) }

func (p *Page[T]) PageNumber() int   { return p.pageNumber }
func (p *Page[T]) PageSize() int     { return p.pageSize }
func (p *Page[T]) TotalItems() int64 { return p.totalItems }
func (p *Page[T]) TotalPages() int   { return p.totalPages }

// HasPreviousPage reports whether a page precedes this one.
func (p *Page[T]) HasPreviousPage() bool { return p.pageNumber > 1 }

// HasNextPage reports whether a page follows this one.
func (p *Page[T]) HasNextPage() bool { return p.pageNumber < p.totalPages }

// MapPage converts every item of p with fn, keeping the metadata.
func MapPage[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := make([]U, len(p.items))
	for i, item := range p.items {
		out[i] = fn(item)
	}
	return &Page[U]{
		items:      out,
		pageNumber: p.pageNumber,
		pageSize:   p.pageSize,
		totalItems: p.totalItems,
		totalPages: p.totalPages,
	}
}
