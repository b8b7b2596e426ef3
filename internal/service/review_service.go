package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/neoclass/neoclass-api/internal/analysis"
	"github.com/neoclass/neoclass-api/internal/calendar"
	"github.com/neoclass/neoclass-api/internal/domain"
	"github.com/neoclass/neoclass-api/internal/domain/sched"
	"github.com/neoclass/neoclass-api/internal/events"
	"github.com/neoclass/neoclass-api/internal/gamification"
	"github.com/neoclass/neoclass-api/internal/store"
	"github.com/neoclass/neoclass-api/internal/task"
)

// TaskRunner defines the interface for submitting background persistence
// work. Submission never blocks; a full queue is reported as an error.
type TaskRunner interface {
	Submit(t task.Task) error
}

// UserState is a snapshot of everything the client renders for a user:
// the full note collection plus the gamification counters.
type UserState struct {
	Notes []*domain.Note
	Stats *domain.UserStats
}

// ReviewService orchestrates the review lifecycle: note creation from
// images, status advancement, scheduling, calendar queries, and the
// gamification side effects of each operation.
//
// State lives in memory. Every mutation updates the in-memory aggregate
// first and returns immediately; persistence happens in the background and
// is never awaited. Failed saves leave the in-memory state in place: a
// mark-revised save failure is surfaced to the user through an alert event,
// all other save failures are only logged.
type ReviewService interface {
	// LoadState returns the user's notes and stats, loading them from the
	// store on first access. Stats are created on the fly for users that
	// have none yet.
	LoadState(ctx context.Context, userID uuid.UUID) (*UserState, error)

	// GetNote returns a single note from the user's collection.
	// Returns ErrNoteNotFound if the note does not exist.
	GetNote(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error)

	// CreateNote analyzes the image, creates a note from the result, and
	// applies the note-created gamification deltas. When analysis fails the
	// note is still created from a minimal default so the photo is never
	// lost. Returns the new note and the updated stats.
	CreateNote(ctx context.Context, userID uuid.UUID, imageData []byte, mimeType string) (*domain.Note, *domain.UserStats, error)

	// MarkRevised advances the note's review status by one step and applies
	// the marked-revised gamification deltas. Mastered notes stay mastered.
	// Returns domain.ErrInvalidReviewStatus if the stored status is not a
	// recognized lifecycle state.
	MarkRevised(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, *domain.UserStats, error)

	// ScheduleSession contributes an ad-hoc revision session on the given
	// calendar day. Scheduling a day that already has a session is a silent
	// no-op. Returns ErrNoteNotFound if the note does not exist.
	ScheduleSession(ctx context.Context, userID, noteID uuid.UUID, day time.Time) (*domain.Note, error)

	// SetExamDate records the note's exam date, canonicalized to local noon.
	SetExamDate(ctx context.Context, userID, noteID uuid.UUID, examDate time.Time) (*domain.Note, error)

	// GeneratePlan replaces the note's study schedule with the fixed-offset
	// revision plan anchored at the current moment and resets its status.
	// Without an exam date the call is a silent no-op and returns the note
	// unchanged.
	GeneratePlan(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error)

	// SessionsOn returns the user's notes with a study session on the given
	// calendar day.
	SessionsOn(ctx context.Context, userID uuid.UUID, day time.Time) ([]*domain.Note, error)

	// ExamsOn returns the user's notes whose exam falls on the given
	// calendar day.
	ExamsOn(ctx context.Context, userID uuid.UUID, day time.Time) ([]*domain.Note, error)
}

// userAggregate holds one user's in-memory state. Each aggregate has its
// own lock so users never contend with each other.
type userAggregate struct {
	mu     sync.Mutex
	loaded bool
	notes  map[uuid.UUID]*domain.Note
	stats  *domain.UserStats
}

// reviewServiceImpl implements the ReviewService interface
type reviewServiceImpl struct {
	noteStore  store.NoteStore
	statsStore store.UserStatsStore
	analyzer   analysis.Analyzer
	scheduler  sched.Service
	assigner   *calendar.Assigner
	runner     TaskRunner
	emitter    events.EventEmitter
	logger     *slog.Logger
	timeFunc   func() time.Time // Injectable for testing

	mu         sync.Mutex
	aggregates map[uuid.UUID]*userAggregate
}

// Ensure reviewServiceImpl implements ReviewService interface
var _ ReviewService = (*reviewServiceImpl)(nil)

// NewReviewService creates a new ReviewService with the given dependencies.
func NewReviewService(
	noteStore store.NoteStore,
	statsStore store.UserStatsStore,
	analyzer analysis.Analyzer,
	scheduler sched.Service,
	assigner *calendar.Assigner,
	runner TaskRunner,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *reviewServiceImpl {
	if noteStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("noteStore cannot be nil for ReviewService")
	}
	if statsStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("statsStore cannot be nil for ReviewService")
	}
	if analyzer == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("analyzer cannot be nil for ReviewService")
	}
	if scheduler == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("scheduler cannot be nil for ReviewService")
	}
	if assigner == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("assigner cannot be nil for ReviewService")
	}
	if runner == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("runner cannot be nil for ReviewService")
	}
	if emitter == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("emitter cannot be nil for ReviewService")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		noteStore:  noteStore,
		statsStore: statsStore,
		analyzer:   analyzer,
		scheduler:  scheduler,
		assigner:   assigner,
		runner:     runner,
		emitter:    emitter,
		logger:     logger.With(slog.String("component", "review_service")),
		timeFunc:   time.Now,
		aggregates: make(map[uuid.UUID]*userAggregate),
	}
}

// aggregateFor returns the user's aggregate, loading it from the stores on
// first access. The returned aggregate is locked; the caller must unlock it.
func (s *reviewServiceImpl) aggregateFor(ctx context.Context, userID uuid.UUID) (*userAggregate, error) {
	s.mu.Lock()
	agg, ok := s.aggregates[userID]
	if !ok {
		agg = &userAggregate{notes: make(map[uuid.UUID]*domain.Note)}
		s.aggregates[userID] = agg
	}
	s.mu.Unlock()

	agg.mu.Lock()
	if agg.loaded {
		return agg, nil
	}

	notes, err := s.noteStore.ListByUser(ctx, userID)
	if err != nil {
		agg.mu.Unlock()
		return nil, NewReviewServiceError("load_state", "failed to load notes", err)
	}
	for _, n := range notes {
		agg.notes[n.ID] = n
	}

	stats, err := s.statsStore.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserStatsNotFound) {
			agg.mu.Unlock()
			return nil, NewReviewServiceError("load_state", "failed to load stats", err)
		}
		stats, err = domain.NewUserStats(userID)
		if err != nil {
			agg.mu.Unlock()
			return nil, NewReviewServiceError("load_state", "failed to initialize stats", err)
		}
		s.persistStats(userID, stats, false)
	}
	agg.stats = stats
	agg.loaded = true

	return agg, nil
}

// notesSnapshot returns clones of the aggregate's notes as a slice sorted
// newest first. Clones keep callers from mutating the aggregate through
// returned pointers. Caller must hold the aggregate lock.
func (agg *userAggregate) notesSnapshot() []*domain.Note {
	notes := make([]*domain.Note, 0, len(agg.notes))
	for _, n := range agg.notes {
		notes = append(notes, n.Clone())
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes
}

// LoadState implements ReviewService.LoadState
func (s *reviewServiceImpl) LoadState(ctx context.Context, userID uuid.UUID) (*UserState, error) {
	agg, err := s.aggregateFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer agg.mu.Unlock()

	return &UserState{
		Notes: agg.notesSnapshot(),
		Stats: agg.stats.Clone(),
	}, nil
}

// GetNote implements ReviewService.GetNote
func (s *reviewServiceImpl) GetNote(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error) {
	agg, err := s.aggregateFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer agg.mu.Unlock()

	note, ok := agg.notes[noteID]
	if !ok {
		return nil, ErrNoteNotFound
	}
	return note.Clone(), nil
}

// CreateNote implements ReviewService.CreateNote
func (s *reviewServiceImpl) CreateNote(
	ctx context.Context,
	userID uuid.UUID,
	imageData []byte,
	mimeType string,
) (*domain.Note, *domain.UserStats, error) {
	result, err := s.analyzer.Analyze(ctx, imageData, mimeType)
	if err != nil {
		// Analysis is best-effort: a note the model could not read still
		// enters the review lifecycle under a default title.
		s.logger.Warn("note analysis failed, using default content",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		result = analysis.DefaultAnalysis()
	}

	note, err := domain.NewNote(userID, result.Title, result.Subject, result.Summary,
		result.OriginalText, result.Cues, result.Quiz, result.Tags)
	if err != nil {
		return nil, nil, NewReviewServiceError("create_note", "failed to create note", err)
	}

	agg, err := s.aggregateFor(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	defer agg.mu.Unlock()

	stats, err := gamification.Apply(agg.stats, gamification.EventNoteCreated, s.timeFunc())
	if err != nil {
		return nil, nil, NewReviewServiceError("create_note", "failed to apply gamification", err)
	}

	agg.notes[note.ID] = note
	agg.stats = stats

	s.persistNote(userID, note, false)
	s.persistStats(userID, stats, false)

	return note.Clone(), stats.Clone(), nil
}

// MarkRevised implements ReviewService.MarkRevised
func (s *reviewServiceImpl) MarkRevised(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, *domain.UserStats, error) {
	agg, err := s.aggregateFor(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	defer agg.mu.Unlock()

	note, ok := agg.notes[noteID]
	if !ok {
		return nil, nil, ErrNoteNotFound
	}

	next, err := domain.AdvanceStatus(note.Status)
	if err != nil {
		return nil, nil, err
	}

	now := s.timeFunc()
	updated := note.Clone()
	updated.Status = next
	updated.UpdatedAt = now.UTC()

	stats, err := gamification.Apply(agg.stats, gamification.EventMarkedRevised, now)
	if err != nil {
		return nil, nil, NewReviewServiceError("mark_revised", "failed to apply gamification", err)
	}

	agg.notes[updated.ID] = updated
	agg.stats = stats

	// Mark-revised is the one operation whose lost progress the user must
	// hear about.
	s.persistNote(userID, updated, true)
	s.persistStats(userID, stats, true)

	return updated.Clone(), stats.Clone(), nil
}

// ScheduleSession implements ReviewService.ScheduleSession
func (s *reviewServiceImpl) ScheduleSession(ctx context.Context, userID, noteID uuid.UUID, day time.Time) (*domain.Note, error) {
	agg, err := s.aggregateFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer agg.mu.Unlock()

	updated, err := s.assigner.Reassign(agg.notesSnapshot(), noteID, day, s.timeFunc())
	if err != nil {
		if errors.Is(err, calendar.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, NewReviewServiceError("schedule_session", "failed to schedule session", err)
	}

	agg.notes[updated.ID] = updated
	s.persistNote(userID, updated, false)

	return updated.Clone(), nil
}

// SetExamDate implements ReviewService.SetExamDate
func (s *reviewServiceImpl) SetExamDate(ctx context.Context, userID, noteID uuid.UUID, examDate time.Time) (*domain.Note, error) {
	agg, err := s.aggregateFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer agg.mu.Unlock()

	note, ok := agg.notes[noteID]
	if !ok {
		return nil, ErrNoteNotFound
	}

	updated := note.Clone()
	exam := domain.NoonOf(examDate)
	updated.ExamDate = &exam
	updated.UpdatedAt = s.timeFunc().UTC()

	agg.notes[updated.ID] = updated
	s.persistNote(userID, updated, false)

	return updated.Clone(), nil
}

// GeneratePlan implements ReviewService.GeneratePlan
func (s *reviewServiceImpl) GeneratePlan(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error) {
	agg, err := s.aggregateFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer agg.mu.Unlock()

	note, ok := agg.notes[noteID]
	if !ok {
		return nil, ErrNoteNotFound
	}

	updated, err := s.scheduler.GeneratePlan(note, s.timeFunc())
	if err != nil {
		if errors.Is(err, sched.ErrNoExamDate) {
			// Plan generation without an exam date quietly leaves the note
			// as it is.
			s.logger.Debug("plan generation skipped, note has no exam date",
				slog.String("note_id", noteID.String()))
			return note.Clone(), nil
		}
		return nil, NewReviewServiceError("generate_plan", "failed to generate plan", err)
	}

	agg.notes[updated.ID] = updated
	s.persistNote(userID, updated, false)

	return updated.Clone(), nil
}

// SessionsOn implements ReviewService.SessionsOn
func (s *reviewServiceImpl) SessionsOn(ctx context.Context, userID uuid.UUID, day time.Time) ([]*domain.Note, error) {
	agg, err := s.aggregateFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer agg.mu.Unlock()

	return s.assigner.SessionsOn(agg.notesSnapshot(), day), nil
}

// ExamsOn implements ReviewService.ExamsOn
func (s *reviewServiceImpl) ExamsOn(ctx context.Context, userID uuid.UUID, day time.Time) ([]*domain.Note, error) {
	agg, err := s.aggregateFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer agg.mu.Unlock()

	return s.assigner.ExamsOn(agg.notesSnapshot(), day), nil
}

// persistNote submits a background save of the note snapshot. The note has
// already been applied in memory; the save outcome cannot change it.
func (s *reviewServiceImpl) persistNote(userID uuid.UUID, note *domain.Note, alert bool) {
	snapshot := note.Clone()
	t := task.NewFuncTask(task.TaskTypeNoteSave, func(ctx context.Context) error {
		if err := s.noteStore.Upsert(ctx, snapshot); err != nil {
			s.reportSaveFailure(ctx, events.EventTypeNoteSaveFailed, userID, snapshot.ID, alert,
				"failed to save note", err)
			return err
		}
		return nil
	})

	if err := s.runner.Submit(t); err != nil {
		s.reportSaveFailure(context.Background(), events.EventTypeNoteSaveFailed, userID, snapshot.ID, alert,
			"failed to enqueue note save", err)
	}
}

// persistStats submits a background save of the stats snapshot.
func (s *reviewServiceImpl) persistStats(userID uuid.UUID, stats *domain.UserStats, alert bool) {
	snapshot := stats.Clone()
	t := task.NewFuncTask(task.TaskTypeStatsSave, func(ctx context.Context) error {
		if err := s.statsStore.Save(ctx, snapshot); err != nil {
			s.reportSaveFailure(ctx, events.EventTypeStatsSaveFailed, userID, uuid.Nil, alert,
				"failed to save stats", err)
			return err
		}
		return nil
	})

	if err := s.runner.Submit(t); err != nil {
		s.reportSaveFailure(context.Background(), events.EventTypeStatsSaveFailed, userID, uuid.Nil, alert,
			"failed to enqueue stats save", err)
	}
}

func (s *reviewServiceImpl) reportSaveFailure(
	ctx context.Context,
	eventType string,
	userID, entityID uuid.UUID,
	alert bool,
	message string,
	err error,
) {
	event := events.NewSaveOutcomeEvent(eventType, userID, entityID, alert, message, err)
	if emitErr := s.emitter.EmitEvent(ctx, event); emitErr != nil {
		s.logger.Error("failed to emit save outcome event",
			slog.String("error", emitErr.Error()),
			slog.String("event_type", eventType),
			slog.String("user_id", userID.String()))
	}
}
