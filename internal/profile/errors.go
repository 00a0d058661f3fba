package profile

import (
	"errors"
	"fmt"
)

// ErrInvalidRegex wraps title patterns that fail to compile.
var ErrInvalidRegex = errors.New("invalid title regex")

// NotFoundError is returned when no stored profile matches a lookup.
type NotFoundError struct {
	ID   int64
	GUID string
}

func (e *NotFoundError) Error() string {
	if e.GUID != "" {
		return fmt.Sprintf("profile not found: %s", e.GUID)
	}
	return fmt.Sprintf("profile not found: %d", e.ID)
}

// CategoryNotFoundError is returned when no stored category matches a lookup.
type CategoryNotFoundError struct {
	ID   int64
	Name string
}

func (e *CategoryNotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("category not found: %s", e.Name)
	}
	return fmt.Sprintf("category not found: %d", e.ID)
}

// IsNotFound reports whether err is or wraps a NotFoundError or a
// CategoryNotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	var cnf *CategoryNotFoundError
	return errors.As(err, &nf) || errors.As(err, &cnf)
}
