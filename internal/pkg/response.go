package pkg

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/fleetbase/internal/domain"
)

// Response is the envelope of every JSON body the API writes.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ValidationErrorResponse is the envelope of a rejected request, with one
// message per offending field.
type ValidationErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Code: status, Message: "success", Data: data})
}

// Success writes data with status 200.
func Success(c *gin.Context, data any) { respond(c, http.StatusOK, data) }

// List writes a listing, typically a Paged, with status 200.
func List(c *gin.Context, result any) { respond(c, http.StatusOK, result) }

// Created writes a new record with status 201.
func Created(c *gin.Context, data any) { respond(c, http.StatusCreated, data) }

// NoContent answers a successful delete.
func NoContent(c *gin.Context) { c.Status(http.StatusNoContent) }

// Error writes err with the status its AppError code maps to. Only AppError
// messages reach the client; server errors are logged and attached to the
// gin context for the access log and the request span.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)

	msg := "internal error"
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		slog.ErrorContext(c.Request.Context(), "request failed", slog.Any("error", err))
	}

	c.JSON(status, Response{Code: status, Message: msg})
}

// PaginationInfo is the pagination metadata of a Paged response.
type PaginationInfo struct {
	PageNumber      int   `json:"pageNumber"`
	PageSize        int   `json:"pageSize"`
	TotalItems      int64 `json:"totalItems"`
	TotalPages      int   `json:"totalPages"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	HasNextPage     bool  `json:"hasNextPage"`
}

// Paged is the body of every listing: one page of mapped items, its
// pagination metadata and its navigation links.
type Paged[D any] struct {
	Data       []D               `json:"data"`
	Pagination PaginationInfo    `json:"pagination"`
	Links      map[string]string `json:"links"`
}

// NewPaged maps every item of page with fn and attaches the navigation links
// rooted at basePath. extra carries the query parameters the links keep.
func NewPaged[E, D any](page *domain.Page[E], fn func(E) D, basePath string, extra map[string]string) Paged[D] {
	return Paged[D]{
		Data: domain.MapPage(page, fn).Items(),
		Pagination: PaginationInfo{
			PageNumber:      page.PageNumber(),
			PageSize:        page.PageSize(),
			TotalItems:      page.TotalItems(),
			TotalPages:      page.TotalPages(),
			HasPreviousPage: page.HasPreviousPage(),
			HasNextPage:     page.HasNextPage(),
		},
		Links: PageLinks(basePath, page, extra),
	}
}

// BindAndValidate binds the request body into obj. On failure it has already
// written a 400 and returns false:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	return bindWith(c, obj, c.ShouldBind)
}

// BindQuery is BindAndValidate for the query string.
func BindQuery(c *gin.Context, obj any) bool {
	return bindWith(c, obj, c.ShouldBindQuery)
}

func bindWith(c *gin.Context, obj any, bind func(any) error) bool {
	if err := bind(obj); err != nil {
		ValidationError(c, err)
		return false
	}
	return true
}

// ValidationError writes a 400. Validator failures are reported per field;
// anything else (malformed JSON, wrong types) is a plain bad request.
func ValidationError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: "bad request"})
		return
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fieldName(fe)] = fieldMessage(fe)
	}
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "validation error",
		Errors:  fields,
	})
}
