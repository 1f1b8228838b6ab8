package pkg

import (
	"testing"

	"github.com/simp-lee/fleetbase/internal/domain"
)

func TestPageLinks(t *testing.T) {
	tests := []struct {
		name  string
		page  *domain.Page[int]
		extra map[string]string
		want  map[string]string
	}{
		{
			name: "middle page",
			page: domain.NewPage(make([]int, 10), 2, 10, 25),
			want: map[string]string{
				LinkSelf:  "/api/v1/vehicles?pageNumber=2&pageSize=10",
				LinkFirst: "/api/v1/vehicles?pageNumber=1&pageSize=10",
				LinkLast:  "/api/v1/vehicles?pageNumber=3&pageSize=10",
				LinkPrev:  "/api/v1/vehicles?pageNumber=1&pageSize=10",
				LinkNext:  "/api/v1/vehicles?pageNumber=3&pageSize=10",
			},
		},
		{
			name: "single page has no neighbours",
			page: domain.NewPage(make([]int, 3), 1, 10, 3),
			want: map[string]string{
				LinkSelf:  "/api/v1/vehicles?pageNumber=1&pageSize=10",
				LinkFirst: "/api/v1/vehicles?pageNumber=1&pageSize=10",
				LinkLast:  "/api/v1/vehicles?pageNumber=1&pageSize=10",
			},
		},
		{
			name: "empty result has only self",
			page: domain.NewPage[int](nil, 1, 10, 0),
			want: map[string]string{
				LinkSelf: "/api/v1/vehicles?pageNumber=1&pageSize=10",
			},
		},
		{
			name:  "extra params are escaped and kept",
			page:  domain.NewPage(make([]int, 5), 1, 5, 6),
			extra: map[string]string{"searchTerm": "honda civic", "sortBy": "year", "sortDirection": ""},
			want: map[string]string{
				LinkSelf:  "/api/v1/vehicles?searchTerm=honda+civic&sortBy=year&pageNumber=1&pageSize=5",
				LinkFirst: "/api/v1/vehicles?searchTerm=honda+civic&sortBy=year&pageNumber=1&pageSize=5",
				LinkLast:  "/api/v1/vehicles?searchTerm=honda+civic&sortBy=year&pageNumber=2&pageSize=5",
				LinkNext:  "/api/v1/vehicles?searchTerm=honda+civic&sortBy=year&pageNumber=2&pageSize=5",
			},
		},
		{
			name: "page past the end still links back",
			page: domain.NewPage[int](nil, 9, 10, 25),
			want: map[string]string{
				LinkSelf:  "/api/v1/vehicles?pageNumber=9&pageSize=10",
				LinkFirst: "/api/v1/vehicles?pageNumber=1&pageSize=10",
				LinkLast:  "/api/v1/vehicles?pageNumber=3&pageSize=10",
				LinkPrev:  "/api/v1/vehicles?pageNumber=8&pageSize=10",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PageLinks("/api/v1/vehicles", tt.page, tt.extra)
			if len(got) != len(tt.want) {
				t.Fatalf("PageLinks() = %v; want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("links[%q] = %q; want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestPageLinks_BaseWithQuery(t *testing.T) {
	page := domain.NewPage(make([]int, 1), 1, 10, 1)
	got := PageLinks("/api/v1/vehicles/odometer?min=1000", page, nil)
	want := "/api/v1/vehicles/odometer?min=1000&pageNumber=1&pageSize=10"
	if got[LinkSelf] != want {
		t.Errorf("self = %q; want %q", got[LinkSelf], want)
	}
}

func TestResourceLinks(t *testing.T) {
	got := ResourceLinks("/api/v1/branches", 7)
	want := map[string]string{
		LinkSelf:   "/api/v1/branches/7",
		LinkUpdate: "/api/v1/branches/7",
		LinkDelete: "/api/v1/branches/7",
		LinkAll:    "/api/v1/branches",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("links[%q] = %q; want %q", k, got[k], v)
		}
	}
}
