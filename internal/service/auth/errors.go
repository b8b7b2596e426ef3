package auth

import "errors"

// Sentinel errors returned by token validation. The API layer maps
// these to HTTP status codes; compare with errors.Is.
var (
	// ErrInvalidToken covers malformed tokens and signature mismatches.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token's expiry has passed.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates an nbf claim in the future.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates no token was supplied at all.
	ErrMissingToken = errors.New("authentication token is missing")
)
