package pkg

import (
	"net/url"
	"strconv"
	"strings"
)

// Link names used in collection and item link maps.
const (
	LinkSelf   = "self"
	LinkFirst  = "first"
	LinkPrev   = "prev"
	LinkNext   = "next"
	LinkLast   = "last"
	LinkUpdate = "update"
	LinkDelete = "delete"
	LinkAll    = "all"
)

// PageInfo is the pagination metadata navigation links are derived from.
// *domain.Page satisfies it for every item type.
type PageInfo interface {
	PageNumber() int
	PageSize() int
	TotalPages() int
	HasPreviousPage() bool
	HasNextPage() bool
}

// PageLinks builds the navigation links of one page:
//   - self always
//   - first and last when there is at least one page
//   - prev and next when such a page exists
//
// extra holds query parameters every link must keep (an active search term,
// a sort key); entries with blank values are dropped.
func PageLinks(basePath string, page PageInfo, extra map[string]string) map[string]string {
	prefix := linkPrefix(basePath, extra)
	size := page.PageSize()

	links := map[string]string{
		LinkSelf: pageURL(prefix, page.PageNumber(), size),
	}
	if page.TotalPages() > 0 {
		links[LinkFirst] = pageURL(prefix, 1, size)
		links[LinkLast] = pageURL(prefix, page.TotalPages(), size)
	}
	if page.HasPreviousPage() {
		links[LinkPrev] = pageURL(prefix, page.PageNumber()-1, size)
	}
	if page.HasNextPage() {
		links[LinkNext] = pageURL(prefix, page.PageNumber()+1, size)
	}
	return links
}

// ResourceLinks returns the links of one record inside collectionURL.
func ResourceLinks(collectionURL string, id uint) map[string]string {
	self := collectionURL + "/" + strconv.FormatUint(uint64(id), 10)
	return map[string]string{
		LinkSelf:   self,
		LinkUpdate: self,
		LinkDelete: self,
		LinkAll:    collectionURL,
	}
}

// linkPrefix renders basePath plus the escaped extra parameters, ending in
// the separator the page parameters should follow.
func linkPrefix(basePath string, extra map[string]string) string {
	values := url.Values{}
	for k, v := range extra {
		if strings.TrimSpace(v) == "" {
			continue
		}
		values.Set(k, v)
	}

	sep := "?"
	if strings.Contains(basePath, "?") {
		sep = "&"
	}
	if encoded := values.Encode(); encoded != "" {
		return basePath + sep + encoded + "&"
	}
	return basePath + sep
}

func pageURL(prefix string, number, size int) string {
	return prefix + "pageNumber=" + strconv.Itoa(number) + "&pageSize=" + strconv.Itoa(size)
}
