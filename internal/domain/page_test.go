package domain

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestPage_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("total pages is the ceiling of total over size", prop.ForAll(
		func(total, size int) bool {
			p := NewPage[int](nil, 1, size, int64(total))
			want := total / size
			if total%size != 0 {
				want++
			}
			return p.TotalPages() == want
		},
		gen.IntRange(0, 5000),
		gen.IntRange(1, MaxPageSize),
	))

	properties.Property("has next page iff page number below total pages", prop.ForAll(
		func(total, size, page int) bool {
			p := NewPage[int](nil, page, size, int64(total))
			return p.HasNextPage() == (page < p.TotalPages())
		},
		gen.IntRange(0, 5000),
		gen.IntRange(1, MaxPageSize),
		gen.IntRange(1, 120),
	))

	properties.Property("has previous page iff page number above one", prop.ForAll(
		func(total, size, page int) bool {
			p := NewPage[int](nil, page, size, int64(total))
			return p.HasPreviousPage() == (page > 1)
		},
		gen.IntRange(0, 5000),
		gen.IntRange(1, MaxPageSize),
		gen.IntRange(1, 120),
	))

	properties.Property("normalized params stay in range", prop.ForAll(
		func(page, size int) bool {
			p := QueryParams{PageNumber: page, PageSize: size}.Normalize()
			return p.PageNumber >= 1 && p.PageSize >= 1 && p.PageSize <= MaxPageSize
		},
		gen.IntRange(-50, 500),
		gen.IntRange(-50, 500),
	))

	properties.TestingRun(t)
}

func TestNewPage_Empty(t *testing.T) {
	p := NewPage[string](nil, 1, 10, 0)
	if p.TotalPages() != 0 {
		t.Errorf("TotalPages() = %d; want 0", p.TotalPages())
	}
	if p.HasNextPage() || p.HasPreviousPage() {
		t.Error("empty first page should have no neighbours")
	}
	if p.Items() == nil {
		t.Error("Items() should be an empty slice, not nil")
	}
}

func TestNewPage_ExactMultiple(t *testing.T) {
	p := NewPage[int](make([]int, 10), 2, 10, 20)
	if p.TotalPages() != 2 {
		t.Errorf("TotalPages() = %d; want 2", p.TotalPages())
	}
	if p.HasNextPage() {
		t.Error("last page of an exact multiple should not have a next page")
	}
}

func TestPage_ItemsIsCopy(t *testing.T) {
	p := NewPage([]int{1, 2, 3}, 1, 10, 3)
	items := p.Items()
	items[0] = 99
	if p.Items()[0] != 1 {
		t.Error("mutating Items() result should not change the page")
	}
}

func TestMapPage(t *testing.T) {
	p := NewPage([]int{1, 2}, 3, 2, 6)
	mapped := MapPage(p, func(v int) string { return string(rune('a' + v)) })

	if got := mapped.Items(); len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("Items() = %v; want [b c]", got)
	}
	if mapped.PageNumber() != 3 || mapped.TotalPages() != 3 || mapped.TotalItems() != 6 {
		t.Errorf("metadata not preserved: page=%d pages=%d total=%d",
			mapped.PageNumber(), mapped.TotalPages(), mapped.TotalItems())
	}
}

func TestQueryParams_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   QueryParams
		want QueryParams
	}{
		{
			name: "zero value gets defaults",
			in:   QueryParams{},
			want: QueryParams{PageNumber: 1, PageSize: 10, SortDirection: SortAsc},
		},
		{
			name: "size clamped to max",
			in:   QueryParams{PageNumber: 2, PageSize: 500},
			want: QueryParams{PageNumber: 2, PageSize: MaxPageSize, SortDirection: SortAsc},
		},
		{
			name: "direction is case-insensitive",
			in:   QueryParams{PageNumber: 1, PageSize: 5, SortDirection: "DeSc"},
			want: QueryParams{PageNumber: 1, PageSize: 5, SortDirection: SortDesc},
		},
		{
			name: "invalid direction becomes asc",
			in:   QueryParams{PageNumber: 1, PageSize: 5, SortDirection: "sideways"},
			want: QueryParams{PageNumber: 1, PageSize: 5, SortDirection: SortAsc},
		},
		{
			name: "blank search and sort are cleared",
			in:   QueryParams{PageNumber: 1, PageSize: 5, SortBy: "  ", SearchTerm: "\t"},
			want: QueryParams{PageNumber: 1, PageSize: 5, SortDirection: SortAsc},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestQueryParams_Offset(t *testing.T) {
	tests := []struct {
		name string
		in   QueryParams
		want int
	}{
		{"third page", QueryParams{PageNumber: 3, PageSize: 10}, 20},
		{"unset", QueryParams{}, 0},
		{"huge page number saturates", QueryParams{PageNumber: 1e17, PageSize: 100}, math.MaxInt},
		{"max int page number saturates", QueryParams{PageNumber: math.MaxInt, PageSize: 2}, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Offset(); got != tt.want {
				t.Errorf("Offset() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestQueryParams_LinkParams(t *testing.T) {
	got := QueryParams{SearchTerm: "honda", SortBy: "year", SortDirection: "DESC"}.LinkParams()
	want := map[string]string{"searchTerm": "honda", "sortBy": "year", "sortDirection": "desc"}
	if len(got) != len(want) {
		t.Fatalf("LinkParams() = %v; want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("LinkParams()[%q] = %q; want %q", k, got[k], v)
		}
	}

	asc := QueryParams{SortBy: "year", SortDirection: "asc"}.LinkParams()
	if _, ok := asc["sortDirection"]; ok {
		t.Error("default direction should not be carried in links")
	}
}
