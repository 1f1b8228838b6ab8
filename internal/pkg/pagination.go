package pkg

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/fleetbase/internal/domain"
)

// ListQuery is the query string accepted by every listing endpoint.
type ListQuery struct {
	PageNumber    int    `form:"pageNumber" binding:"omitempty,min=1,max=1000000"` // domain.MaxPageNumber
	PageSize      int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	SortBy        string `form:"sortBy" binding:"omitempty,max=50"`
	SortDirection string `form:"sortDirection" binding:"omitempty,max=10"`
	SearchTerm    string `form:"searchTerm" binding:"omitempty,max=100"`
}

// Params converts q into normalized query parameters.
func (q ListQuery) Params() domain.QueryParams {
	return domain.QueryParams{
		PageNumber:    q.PageNumber,
		PageSize:      q.PageSize,
		SortBy:        q.SortBy,
		SortDirection: q.SortDirection,
		SearchTerm:    q.SearchTerm,
	}.Normalize()
}

// BindQueryParams parses and validates the listing query string. Missing
// values take their defaults; out-of-range values are rejected with a 400
// response, in which case ok is false and the handler should return.
//
//	params, ok := pkg.BindQueryParams(c)
//	if !ok { return }
func BindQueryParams(c *gin.Context) (params domain.QueryParams, ok bool) {
	var q ListQuery
	if !BindQuery(c, &q) {
		return domain.QueryParams{}, false
	}
	return q.Params(), true
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET for params.
func Paginate(params domain.QueryParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset()).Limit(params.PageSize)
	}
}
