// Package apperrors defines the error taxonomy shared by services and
// handlers: validation failures (field-level, 422), conflicts (409), and
// missing entities (404). Everything else is treated as a server error at
// the HTTP boundary.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks an entity that vanished between list and action.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness violation (name/code/city collision).
	ErrConflict = errors.New("conflict")
)

// ValidationError is a client-side field-level failure that blocks the
// operation. Field names the offending input field for inline display.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation builds a field-level validation error.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFound wraps ErrNotFound with the entity kind for the message.
func NotFound(kind string) error {
	return fmt.Errorf("%s %w", kind, ErrNotFound)
}

// Conflict wraps ErrConflict with a human-readable reason.
func Conflict(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrConflict)
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is (or wraps) ErrConflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// AsValidation extracts a *ValidationError when err is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
