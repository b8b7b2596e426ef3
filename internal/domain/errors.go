// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidReviewStatus is returned when a note's review status is not
	// part of the known progression. This indicates a programmer or
	// data-integrity error rather than a user-recoverable condition.
	ErrInvalidReviewStatus = errors.New("invalid review status")

	// ErrInvalidGamificationEvent is returned when a gamification event kind
	// is not recognized by the ledger.
	ErrInvalidGamificationEvent = errors.New("invalid gamification event")
)
