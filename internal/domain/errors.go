package domain

import (
	"errors"
	"fmt"
)

// Sentinel categories for domain failures. Callers branch with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrUnavailable      = errors.New("unavailable")
	ErrInvalidState     = errors.New("invalid state transition")
	ErrConflict         = errors.New("conflict")
)

// DomainError carries a failure category plus a human-readable message.
type DomainError struct {
	Err     error
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Err }

// NewNotFoundError reports a missing entity by type and identifier.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with id %s not found", entity, id),
	}
}

// NewInvalidInputError reports a request rejected before any mutation.
func NewInvalidInputError(msg string) *DomainError {
	return &DomainError{Err: ErrInvalidInput, Message: msg}
}

// NewCapacityExceededError reports an inventory underflow on a specific date.
func NewCapacityExceededError(msg string) *DomainError {
	return &DomainError{Err: ErrCapacityExceeded, Message: msg}
}

// NewUnavailableError reports that some date in a requested range has no capacity.
func NewUnavailableError(msg string) *DomainError {
	return &DomainError{Err: ErrUnavailable, Message: msg}
}

// NewInvalidStateError reports an illegal state-machine transition.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{
		Err:     ErrInvalidState,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

// NewConflictError reports a concurrent-modification conflict.
func NewConflictError(msg string) *DomainError {
	return &DomainError{Err: ErrConflict, Message: msg}
}
