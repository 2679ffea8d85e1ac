package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced to API callers. Services wrap these with context;
// the HTTP layer maps them to status codes (404, 409, 409, 400).
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrBadRequest        = errors.New("bad request")
)

// NotFoundError wraps ErrNotFound with the entity name and id.
func NotFoundError(entity string, id int32) error {
	return fmt.Errorf("%s with id %d: %w", entity, id, ErrNotFound)
}

// ConflictError wraps ErrConflict with a reason.
func ConflictError(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrConflict)
}

// TransitionError wraps ErrInvalidTransition with the attempted edge.
func TransitionError(entity string, from, to string) error {
	return fmt.Errorf("%s cannot move from %q to %q: %w", entity, from, to, ErrInvalidTransition)
}

// BadRequestError wraps ErrBadRequest with a reason.
func BadRequestError(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrBadRequest)
}
