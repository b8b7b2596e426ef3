package service

import (
	"errors"
	"fmt"
)

// Common sentinel errors for the service layer
var (
	// ErrNoteNotFound indicates that the note does not exist for the user
	ErrNoteNotFound = errors.New("note not found")

	// ErrUserNotFound indicates that the user does not exist
	ErrUserNotFound = errors.New("user not found")
)

// ReviewServiceError wraps errors from the review service with context.
type ReviewServiceError struct {
	// Operation is the operation that failed (e.g., "create_note", "mark_revised")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ReviewServiceError.
func (e *ReviewServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("review service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("review service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ReviewServiceError) Unwrap() error {
	return e.Err
}

// NewReviewServiceError creates a new ReviewServiceError.
// It returns known sentinel errors directly without wrapping.
func NewReviewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrNoteNotFound) || errors.Is(err, ErrUserNotFound) {
		return err
	}

	return &ReviewServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
