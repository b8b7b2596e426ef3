// Package sched implements the review scheduling policy: ad-hoc session
// dating with same-calendar-day deduplication, and fixed-offset revision
// plan generation anchored to the moment of generation.
package sched

import (
	"errors"
	"time"

	"github.com/neoclass/neoclass-api/internal/domain"
)

// Common errors
var (
	ErrNilNote = errors.New("note cannot be nil")

	// ErrNoExamDate is returned when plan generation is requested for a
	// note without an exam date. Callers treat this as a no-op, not a
	// failure.
	ErrNoExamDate = errors.New("note has no exam date")
)

// Service defines the interface for scheduling operations. All methods
// return new note instances rather than modifying their inputs.
type Service interface {
	// ScheduleSession contributes a revision session on the calendar day
	// of the given target to the note's study schedule. The entry is
	// canonicalized to local noon. If a same-calendar-day entry already
	// exists the note is returned unchanged (silent no-op).
	ScheduleSession(note *domain.Note, day time.Time, now time.Time) (*domain.Note, error)

	// GeneratePlan replaces the note's entire study schedule with the
	// fixed-offset plan anchored at now and resets the status to new.
	// The stored exam date gates generation but does not shift the
	// offsets. Returns ErrNoExamDate if the note has no exam date.
	GeneratePlan(note *domain.Note, now time.Time) (*domain.Note, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduling service with the 1-3-7 parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
// Returns an error if the parameters are invalid.
func NewServiceWithParams(params *Params) (Service, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{params: params}, nil
}

// ScheduleSession implements the Service interface.
func (s *defaultService) ScheduleSession(
	note *domain.Note,
	day time.Time,
	now time.Time,
) (*domain.Note, error) {
	if note == nil {
		return nil, ErrNilNote
	}

	updated := note.Clone()
	session := domain.NoonOf(day)

	if updated.HasSessionOn(session) {
		return updated, nil
	}

	updated.StudySchedule = append(updated.StudySchedule, session)
	updated.UpdatedAt = now.UTC()
	return updated, nil
}

// GeneratePlan implements the Service interface.
func (s *defaultService) GeneratePlan(
	note *domain.Note,
	now time.Time,
) (*domain.Note, error) {
	if note == nil {
		return nil, ErrNilNote
	}

	if note.ExamDate == nil {
		return nil, ErrNoExamDate
	}

	updated := note.Clone()
	schedule := make([]time.Time, 0, len(s.params.PlanOffsetDays))
	for _, offset := range s.params.PlanOffsetDays {
		schedule = append(schedule, domain.NoonOf(now.AddDate(0, 0, offset)))
	}

	updated.StudySchedule = schedule
	updated.Status = domain.ReviewStatusNew
	updated.UpdatedAt = now.UTC()
	return updated, nil
}
