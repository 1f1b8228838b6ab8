package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/fleetbase/internal/domain"
)

// MapError converts a database error into a domain error. Errors that already
// are an *domain.AppError pass through unchanged.
//
// A unique-constraint failure at write time is a conflict; callers may retry
// it after re-validating. A foreign-key failure at write time means the
// referenced record does not exist.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err):
		return domain.NewAppError(domain.CodeConflict, "unique constraint violated", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated) || isForeignKeyError(err):
		return domain.NewAppError(domain.CodeInvalidReference, "referenced record does not exist", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.NewAppError(domain.CodeInternal, "database operation cancelled", err)
	default:
		return domain.NewAppError(domain.CodeInternal, "database error", err)
	}
}

// mapDeleteError is MapError for deletes, where a foreign-key failure means
// the record is still referenced.
func mapDeleteError(err error) error {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) && (errors.Is(err, gorm.ErrForeignKeyViolated) || isForeignKeyError(err)) {
		return domain.NewAppError(domain.CodeConflict, "record is still referenced", err)
	}
	return MapError(err)
}

// isDuplicateKeyError checks driver error text for unique-constraint failures
// (sqlite, postgres and mysql wordings).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

func isForeignKeyError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}
