package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSagaNotFound is returned when no instance exists for a saga id
	ErrSagaNotFound = errors.New("saga not found")
	// ErrDuplicateEvent is returned by storage when the event id was already recorded
	ErrDuplicateEvent = errors.New("duplicate event")
	// ErrValidation marks malformed input such as unknown enum values
	ErrValidation = errors.New("validation error")
	// ErrProcessing marks a storage fault that should cause redelivery
	ErrProcessing = errors.New("saga event processing failed")
	// ErrConcurrentModification is returned by storage when the saga version moved under the writer
	ErrConcurrentModification = errors.New("saga was modified concurrently")
)

// ProcessingError carries the event that could not be persisted and its cause.
// It matches both ErrProcessing and the cause with errors.Is.
type ProcessingError struct {
	EventID string
	Err     error
}

// NewProcessingError wraps cause for the given event
func NewProcessingError(eventID string, cause error) *ProcessingError {
	return &ProcessingError{EventID: eventID, Err: cause}
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing event %s: %v", e.EventID, e.Err)
}

func (e *ProcessingError) Unwrap() []error {
	return []error{ErrProcessing, e.Err}
}
