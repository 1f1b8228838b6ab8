package domain

import (
	"errors"
	"net/http"
)

// Outcome codes carried by AppError. Services and the store never return
// anything else to handlers.
const (
	CodeNotFound         = 1
	CodeConflict         = 2
	CodeValidation       = 3
	CodeInternal         = 4
	CodeInvalidReference = 5
	CodeUnauthorized     = 6
	CodeForbidden        = 7
)

var statusByCode = map[int]int{
	CodeNotFound:         http.StatusNotFound,
	CodeConflict:         http.StatusConflict,
	CodeValidation:       http.StatusBadRequest,
	CodeInternal:         http.StatusInternalServerError,
	CodeInvalidReference: http.StatusUnprocessableEntity,
	CodeUnauthorized:     http.StatusUnauthorized,
	CodeForbidden:        http.StatusForbidden,
}

// AppError is a typed outcome: a code, a message safe to show to clients and
// the underlying cause, which is never serialised.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches any AppError with the same code, so errors.Is(err, ErrConflict)
// holds for every conflict regardless of its message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Sentinels, one per code.
var (
	ErrNotFound         = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrConflict         = &AppError{Code: CodeConflict, Message: "conflict"}
	ErrValidation       = &AppError{Code: CodeValidation, Message: "validation error"}
	ErrInternal         = &AppError{Code: CodeInternal, Message: "internal error"}
	ErrInvalidReference = &AppError{Code: CodeInvalidReference, Message: "invalid reference"}
	ErrUnauthorized     = &AppError{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden        = &AppError{Code: CodeForbidden, Message: "forbidden"}
)

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// The predicates look at the outermost AppError in err's chain.
func IsNotFound(err error) bool         { return hasCode(err, CodeNotFound) }
func IsConflict(err error) bool         { return hasCode(err, CodeConflict) }
func IsValidation(err error) bool       { return hasCode(err, CodeValidation) }
func IsInternal(err error) bool         { return hasCode(err, CodeInternal) }
func IsInvalidReference(err error) bool { return hasCode(err, CodeInvalidReference) }

func hasCode(err error, code int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// CodeOf returns the code of the first AppError in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// HTTPStatusCode maps err to a response status. Unknown codes and plain
// errors are server errors.
func HTTPStatusCode(err error) int {
	if status, ok := statusByCode[CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
