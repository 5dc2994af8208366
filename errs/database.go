package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrDatabaseQuery        = fmt.Errorf("%w: database query failed", ErrStorage)
	ErrDatabaseConnection   = fmt.Errorf("%w: database connection failed", ErrStorage)
	ErrForeignKeyConstraint = errors.New("foreign key constraint violation")
)

// Postgres SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewForeignKeyError reports a write that referenced a missing row.
func NewForeignKeyError(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%s: %w", entity, ErrForeignKeyConstraint),
		Details:    "The referenced resource does not exist or cannot be linked",
	}
}

// NewDatabaseError translates a repository failure into a typed ApiErr.
// Errors that are already ApiErrs pass through unchanged.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if errors.Is(cause, gorm.ErrRecordNotFound) {
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        fmt.Errorf("%s %w", entity, ErrNotFound),
			Details:    details,
			Cause:      cause,
		}
	}
	if errors.Is(cause, gorm.ErrDuplicatedKey) {
		return NewDuplicateError(entity, fmt.Sprintf("%s already exists", entity), cause)
	}

	var pgErr *pgconn.PgError
	if errors.As(cause, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return NewDuplicateError(entity, fmt.Sprintf("%s already exists", entity), cause)
		case pgForeignKeyViolation:
			fkErr := NewForeignKeyError(entity)
			fkErr.Cause = cause
			return fkErr
		case pgCheckViolation:
			return &ApiErr{
				StatusCode: http.StatusBadRequest,
				err:        ErrInvalidField,
				Details:    pgErr.Message,
				Field:      pgErr.ColumnName,
				Cause:      cause,
			}
		}
	}

	if cause != nil && strings.Contains(cause.Error(), "connection") {
		return &ApiErr{
			StatusCode: http.StatusServiceUnavailable,
			err:        ErrDatabaseConnection,
			Details:    "Unable to connect to database",
			Cause:      cause,
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}
