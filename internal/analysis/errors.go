package analysis

import "errors"

// Common errors returned by the analysis package
var (
	// ErrAnalysisFailed is returned when note analysis fails for any general reason
	ErrAnalysisFailed = errors.New("failed to analyze note image")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrEmptyImage is returned when the provided image payload is empty
	ErrEmptyImage = errors.New("image data cannot be empty")

	// ErrInvalidConfig is returned when the analyzer configuration is invalid
	ErrInvalidConfig = errors.New("invalid analyzer configuration")
)
