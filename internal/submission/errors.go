package submission

import (
	"errors"
	"fmt"

	"github.com/xn-coder/Project-Gateway/internal/model"
	"github.com/xn-coder/Project-Gateway/internal/validation"
)

// ValidationError reports bad input. Nothing was written to the store.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return "invalid data: " + e.Fields.Error()
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: validation.Errors{{Field: field, Message: message}}}
}

// PersistenceError wraps a store or file backend failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotificationError wraps an email failure. It never fails the operation
// that triggered it.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return "notification: " + e.Err.Error()
}

func (e *NotificationError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means the submission does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}

// persistence wraps store errors, passing ErrNotFound through untouched so
// callers can still tell the two apart.
func persistence(op, id string, err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("submission %s: %w", id, model.ErrNotFound)
	}
	return &PersistenceError{Op: op, Err: err}
}
