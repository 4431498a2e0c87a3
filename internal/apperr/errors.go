// Package apperr defines the sentinel errors shared across jotdesk surfaces.
package apperr

import "errors"

var (
	// ErrEmptyTitle is returned when a save is attempted with a blank title.
	ErrEmptyTitle = errors.New("title is empty")
	// ErrInvalidTitle is returned when a title cannot be used as a filename.
	ErrInvalidTitle = errors.New("title contains characters not allowed in a filename")
	// ErrNotFound is returned when an index or title resolves to no note.
	ErrNotFound = errors.New("not found")
)

// IsValidation reports whether err belongs to the validation class:
// user-correctable input problems that must not mutate any state.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyTitle) || errors.Is(err, ErrInvalidTitle)
}
