// Package gamification derives stat deltas from lifecycle events. The
// ledger is a pure transformation over UserStats: it returns new instances
// and never mutates its input.
package gamification

import (
	"errors"
	"time"

	"github.com/neoclass/neoclass-api/internal/domain"
)

// Event identifies a lifecycle event that affects gamification counters.
type Event string

// Event kinds recognized by the ledger. No other events affect stats.
const (
	EventNoteCreated   Event = "note_created"
	EventMarkedRevised Event = "marked_revised"
)

// Stat deltas per event.
const (
	noteCreatedXP        = 50
	noteCreatedMandala   = 5
	markedRevisedXP      = 100
	markedRevisedMandala = 15
)

// ErrNilStats is returned when the input stats are nil.
var ErrNilStats = errors.New("user stats cannot be nil")

// IsValid checks if the event is a known kind.
func (e Event) IsValid() bool {
	switch e {
	case EventNoteCreated, EventMarkedRevised:
		return true
	default:
		return false
	}
}

// Apply returns new stats with the event's deltas applied. Mandala progress
// is clamped to [0,100] as part of the update itself, not at read time.
// Returns domain.ErrInvalidGamificationEvent for unknown event kinds.
func Apply(stats *domain.UserStats, event Event, now time.Time) (*domain.UserStats, error) {
	if stats == nil {
		return nil, ErrNilStats
	}

	if !event.IsValid() {
		return nil, domain.ErrInvalidGamificationEvent
	}

	updated := stats.Clone()
	switch event {
	case EventNoteCreated:
		updated.XP += noteCreatedXP
		updated.MandalaProgress = clampMandala(updated.MandalaProgress + noteCreatedMandala)
	case EventMarkedRevised:
		updated.XP += markedRevisedXP
		updated.Streak++
		updated.MandalaProgress = clampMandala(updated.MandalaProgress + markedRevisedMandala)
	}
	updated.UpdatedAt = now.UTC()

	return updated, nil
}

func clampMandala(v int) int {
	if v < 0 {
		return 0
	}
	if v > domain.MandalaProgressMax {
		return domain.MandalaProgressMax
	}
	return v
}
