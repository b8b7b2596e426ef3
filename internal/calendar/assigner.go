// Package calendar maps calendar days to the notes scheduled on them and
// handles drag-reassignment of study sessions.
package calendar

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/neoclass/neoclass-api/internal/domain"
	"github.com/neoclass/neoclass-api/internal/domain/sched"
)

// ErrNoteNotFound is returned when a reassignment references a note id
// that is not present in the supplied collection. Callers report this as
// a no-op; it is never retried.
var ErrNoteNotFound = errors.New("note not found")

// Assigner answers per-day calendar queries and applies drag-reassignments
// through the scheduling service. It holds no state of its own; the note
// collection is supplied per call.
type Assigner struct {
	scheduler sched.Service
}

// NewAssigner creates an Assigner backed by the given scheduling service.
func NewAssigner(scheduler sched.Service) *Assigner {
	if scheduler == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("scheduler cannot be nil for Assigner")
	}
	return &Assigner{scheduler: scheduler}
}

// SessionsOn returns the notes whose study schedule contains an entry on
// the same calendar day as the given reference, ignoring time-of-day.
func (a *Assigner) SessionsOn(notes []*domain.Note, day time.Time) []*domain.Note {
	var due []*domain.Note
	for _, n := range notes {
		if n.HasSessionOn(day) {
			due = append(due, n)
		}
	}
	return due
}

// ExamsOn returns the notes whose exam date falls on the same calendar day
// as the given reference.
func (a *Assigner) ExamsOn(notes []*domain.Note, day time.Time) []*domain.Note {
	var due []*domain.Note
	for _, n := range notes {
		if n.HasExamOn(day) {
			due = append(due, n)
		}
	}
	return due
}

// Reassign resolves the note by id and contributes a session on the target
// day through the scheduler. Returns the updated note for persistence, or
// ErrNoteNotFound if the id cannot be resolved.
func (a *Assigner) Reassign(
	notes []*domain.Note,
	noteID uuid.UUID,
	day time.Time,
	now time.Time,
) (*domain.Note, error) {
	for _, n := range notes {
		if n.ID == noteID {
			return a.scheduler.ScheduleSession(n, day, now)
		}
	}
	return nil, ErrNoteNotFound
}

// MonthCursor is a display cursor over calendar months. It is presentation
// state only and is never persisted.
type MonthCursor struct {
	year  int
	month time.Month
}

// NewMonthCursor returns a cursor positioned on the month containing t.
func NewMonthCursor(t time.Time) MonthCursor {
	return MonthCursor{year: t.Year(), month: t.Month()}
}

// Year returns the cursor's year.
func (c MonthCursor) Year() int { return c.year }

// Month returns the cursor's month.
func (c MonthCursor) Month() time.Month { return c.month }

// Next returns a cursor advanced by one month.
func (c MonthCursor) Next() MonthCursor {
	t := time.Date(c.year, c.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return MonthCursor{year: t.Year(), month: t.Month()}
}

// Prev returns a cursor moved back by one month.
func (c MonthCursor) Prev() MonthCursor {
	t := time.Date(c.year, c.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return MonthCursor{year: t.Year(), month: t.Month()}
}

// Contains reports whether the given time falls inside the cursor's month.
func (c MonthCursor) Contains(t time.Time) bool {
	return t.Year() == c.year && t.Month() == c.month
}

// Days returns every calendar day of the cursor's month, anchored at
// midnight in the given location.
func (c MonthCursor) Days(loc *time.Location) []time.Time {
	first := time.Date(c.year, c.month, 1, 0, 0, 0, 0, loc)
	var days []time.Time
	for d := first; d.Month() == c.month; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
