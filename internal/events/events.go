package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Save-outcome event types.
const (
	// EventTypeNoteSaveFailed reports a failed background note save.
	EventTypeNoteSaveFailed = "note_save_failed"

	// EventTypeStatsSaveFailed reports a failed background stats save.
	EventTypeStatsSaveFailed = "stats_save_failed"
)

// SaveOutcomeEvent reports the result of a background persistence attempt.
// In-memory state has already been updated by the time the event fires, so
// handlers can only surface the outcome, not undo it.
type SaveOutcomeEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates which save operation the event reports on
	Type string `json:"type"`

	// UserID identifies the user whose data was being saved
	UserID uuid.UUID `json:"user_id"`

	// EntityID identifies the saved entity, when it is not the user itself
	EntityID uuid.UUID `json:"entity_id,omitempty"`

	// Alert indicates the failure should be surfaced to the user rather
	// than only logged
	Alert bool `json:"alert"`

	// Message is a human-readable description of the outcome
	Message string `json:"message"`

	// Error carries the underlying error text, if any
	Error string `json:"error,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewSaveOutcomeEvent creates a new SaveOutcomeEvent for the given save type.
func NewSaveOutcomeEvent(eventType string, userID, entityID uuid.UUID, alert bool, message string, err error) *SaveOutcomeEvent {
	event := &SaveOutcomeEvent{
		ID:        uuid.New(),
		Type:      eventType,
		UserID:    userID,
		EntityID:  entityID,
		Alert:     alert,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		event.Error = err.Error()
	}
	return event
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *SaveOutcomeEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *SaveOutcomeEvent) error
}
