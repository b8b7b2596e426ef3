package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/neoclass/neoclass-api/internal/domain"
)

// NoteStore defines the interface for note persistence.
// Operations are idempotent by note id: Upsert inserts on first save and
// overwrites the whole row on every subsequent one, which matches the
// fire-and-forget persistence model (each save carries a full snapshot).
type NoteStore interface {
	// Upsert saves the note, inserting or fully replacing by id.
	// Returns validation errors if the note data is invalid.
	Upsert(ctx context.Context, note *domain.Note) error

	// GetByID retrieves a note by its unique ID.
	// Returns ErrNoteNotFound if the note does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)

	// ListByUser retrieves all notes belonging to a user, newest first.
	// Returns an empty slice when the user has no notes.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Note, error)
}
