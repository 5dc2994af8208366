package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Wardrobe workflow errors
var (
	ErrAuthRequired = errors.New("authentication required")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrStorage      = errors.New("storage failure")
)

// DuplicateOutfitMessage is shown when an item is scheduled twice on one date.
const DuplicateOutfitMessage = "This item is already added to this date"

func NewAuthRequiredError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrAuthRequired,
		Details:    "Not authenticated",
		Field:      "authorization",
	}
}

// NewDuplicateError reports a unique-constraint violation on entity with a user-facing message.
func NewDuplicateError(entity, message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s: %w", entity, ErrDuplicate),
		Details:    message,
		Cause:      cause,
	}
}

func NewStorageError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStorage,
		Details:    fmt.Sprintf("Failed to %s", operation),
		Cause:      cause,
	}
}

func IsAuthRequired(err error) bool {
	return errors.Is(err, ErrAuthRequired)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
