package queryspec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFilter is the root cause of every filter translation failure.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidSort is the root cause of every sort translation failure.
	ErrInvalidSort = errors.New("invalid sort")
)

// FieldError reports a problem with one field of a filter or sort model.
type FieldError struct {
	Field  string
	Reason string
	root   error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.root, e.Reason)
	}
	return fmt.Sprintf("%s on %q: %s", e.root, e.Field, e.Reason)
}

// Unwrap returns ErrInvalidFilter or ErrInvalidSort.
func (e *FieldError) Unwrap() error { return e.root }

func filterErr(field, format string, args ...interface{}) error {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...), root: ErrInvalidFilter}
}

func sortErr(field, format string, args ...interface{}) error {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...), root: ErrInvalidSort}
}
