package events

import (
	"context"
	"log/slog"
)

// LoggingEventHandler writes save-outcome events to the structured log.
// Alert events come out at ERROR level so they reach operators and any
// client-facing notification pipeline; everything else is a WARN.
type LoggingEventHandler struct {
	logger *slog.Logger
}

// NewLoggingEventHandler creates a LoggingEventHandler.
func NewLoggingEventHandler(logger *slog.Logger) *LoggingEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventHandler{
		logger: logger.With("component", "save_outcome_logger"),
	}
}

// Ensure LoggingEventHandler implements EventHandler interface
var _ EventHandler = (*LoggingEventHandler)(nil)

// HandleEvent implements EventHandler.HandleEvent
func (h *LoggingEventHandler) HandleEvent(ctx context.Context, event *SaveOutcomeEvent) error {
	attrs := []any{
		"event_id", event.ID,
		"event_type", event.Type,
		"user_id", event.UserID,
		"message", event.Message,
		"error", event.Error,
	}

	if event.Alert {
		h.logger.ErrorContext(ctx, "save failure requires user attention", attrs...)
	} else {
		h.logger.WarnContext(ctx, "background save failed", attrs...)
	}
	return nil
}
