package analysis

import (
	"context"

	"github.com/neoclass/neoclass-api/internal/domain"
)

// Default values used when the model omits a field from its response, or
// when callers need a usable result after analysis fails outright.
const (
	DefaultTitle   = "Untitled Note"
	DefaultSubject = "General"
)

// NoteAnalysis is the structured content extracted from a photographed
// study note. Field values are already sanitized: title and subject are
// never empty and slices are never nil.
type NoteAnalysis struct {
	Title        string
	Subject      string
	Summary      string
	OriginalText string
	Cues         []string
	Quiz         []domain.QuizItem
	Tags         []string
}

// DefaultAnalysis returns a minimal usable analysis. Callers fall back to
// it when the analyzer fails, so a note can still be created from a photo
// the model could not read.
func DefaultAnalysis() *NoteAnalysis {
	return &NoteAnalysis{
		Title:   DefaultTitle,
		Subject: DefaultSubject,
		Cues:    []string{},
		Quiz:    []domain.QuizItem{},
		Tags:    []string{},
	}
}

// Analyzer defines the interface for extracting structured note content
// from an image.
type Analyzer interface {
	// Analyze extracts structured study content from the given image.
	// mimeType identifies the image encoding (e.g. "image/jpeg").
	// It returns a sanitized NoteAnalysis or an error if the analysis
	// fails (see errors.go for specific types).
	Analyze(ctx context.Context, imageData []byte, mimeType string) (*NoteAnalysis, error)
}
