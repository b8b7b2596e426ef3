package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neoclass/neoclass-api/internal/analysis"
	"github.com/neoclass/neoclass-api/internal/calendar"
	"github.com/neoclass/neoclass-api/internal/domain"
	"github.com/neoclass/neoclass-api/internal/domain/sched"
	"github.com/neoclass/neoclass-api/internal/events"
	"github.com/neoclass/neoclass-api/internal/store"
	"github.com/neoclass/neoclass-api/internal/task"
)

type fakeNoteStore struct {
	mu         sync.Mutex
	notes      map[uuid.UUID]*domain.Note
	failUpsert bool
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[uuid.UUID]*domain.Note)}
}

func (f *fakeNoteStore) Upsert(ctx context.Context, note *domain.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpsert {
		return errors.New("upsert failed")
	}
	f.notes[note.ID] = note.Clone()
	return nil
}

func (f *fakeNoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	note, ok := f.notes[id]
	if !ok {
		return nil, store.ErrNoteNotFound
	}
	return note.Clone(), nil
}

func (f *fakeNoteStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Note{}
	for _, n := range f.notes {
		if n.UserID == userID {
			out = append(out, n.Clone())
		}
	}
	return out, nil
}

type fakeStatsStore struct {
	mu       sync.Mutex
	stats    map[uuid.UUID]*domain.UserStats
	failSave bool
}

func newFakeStatsStore() *fakeStatsStore {
	return &fakeStatsStore{stats: make(map[uuid.UUID]*domain.UserStats)}
}

func (f *fakeStatsStore) Save(ctx context.Context, stats *domain.UserStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return errors.New("save failed")
	}
	f.stats[stats.UserID] = stats.Clone()
	return nil
}

func (f *fakeStatsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats, ok := f.stats[userID]
	if !ok {
		return nil, store.ErrUserStatsNotFound
	}
	return stats.Clone(), nil
}

type fakeAnalyzer struct {
	result *analysis.NoteAnalysis
	err    error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, imageData []byte, mimeType string) (*analysis.NoteAnalysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// syncRunner executes tasks inline so tests observe persistence outcomes
// deterministically.
type syncRunner struct{}

func (syncRunner) Submit(t task.Task) error {
	//nolint:errcheck // failures are reported inside the task itself
	_ = t.Execute(context.Background())
	return nil
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.SaveOutcomeEvent
}

func (r *recordingEmitter) EmitEvent(ctx context.Context, event *events.SaveOutcomeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEmitter) all() []*events.SaveOutcomeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*events.SaveOutcomeEvent(nil), r.events...)
}

type fixture struct {
	svc       *reviewServiceImpl
	noteStore *fakeNoteStore
	stats     *fakeStatsStore
	analyzer  *fakeAnalyzer
	emitter   *recordingEmitter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	noteStore := newFakeNoteStore()
	statsStore := newFakeStatsStore()
	analyzer := &fakeAnalyzer{result: &analysis.NoteAnalysis{
		Title:   "Photosynthesis",
		Subject: "Biology",
		Summary: "Light and dark reactions",
		Cues:    []string{"chlorophyll"},
		Tags:    []string{"plants"},
	}}
	emitter := &recordingEmitter{}
	scheduler := sched.NewDefaultService()

	svc := NewReviewService(
		noteStore,
		statsStore,
		analyzer,
		scheduler,
		calendar.NewAssigner(scheduler),
		syncRunner{},
		emitter,
		slog.Default(),
	)

	return &fixture{
		svc:       svc,
		noteStore: noteStore,
		stats:     statsStore,
		analyzer:  analyzer,
		emitter:   emitter,
	}
}

func TestLoadStateCreatesStatsForNewUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()

	state, err := f.svc.LoadState(context.Background(), userID)
	require.NoError(t, err)

	assert.Empty(t, state.Notes)
	require.NotNil(t, state.Stats)
	assert.Equal(t, 0, state.Stats.XP)
	assert.Equal(t, 1, state.Stats.Level)

	// The fresh stats were persisted in the background.
	saved, err := f.stats.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, saved.XP)
}

func TestCreateNoteAppliesGamification(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()

	note, stats, err := f.svc.CreateNote(context.Background(), userID, []byte("img"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "Photosynthesis", note.Title)
	assert.Equal(t, "Biology", note.Subject)
	assert.Equal(t, domain.ReviewStatusNew, note.Status)
	assert.Equal(t, 50, stats.XP)
	assert.Equal(t, 5, stats.MandalaProgress)
	assert.Equal(t, 0, stats.Streak)

	saved, err := f.noteStore.GetByID(context.Background(), note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.ID, saved.ID)
}

func TestCreateNoteFallsBackWhenAnalysisFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.analyzer.err = errors.New("model unavailable")
	userID := uuid.New()

	note, stats, err := f.svc.CreateNote(context.Background(), userID, []byte("img"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, analysis.DefaultTitle, note.Title)
	assert.Equal(t, analysis.DefaultSubject, note.Subject)
	assert.Equal(t, 50, stats.XP)
}

func TestMarkRevisedTwiceAdvancesTwoSteps(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()

	note, _, err := f.svc.CreateNote(context.Background(), userID, []byte("img"), "image/jpeg")
	require.NoError(t, err)

	updated, stats, err := f.svc.MarkRevised(context.Background(), userID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusReview1, updated.Status)
	assert.Equal(t, 150, stats.XP)
	assert.Equal(t, 1, stats.Streak)

	updated, stats, err = f.svc.MarkRevised(context.Background(), userID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusReview3, updated.Status)
	assert.Equal(t, 250, stats.XP)
	assert.Equal(t, 2, stats.Streak)
	assert.Equal(t, 35, stats.MandalaProgress)
}

func TestMarkRevisedMasteredStaysMastered(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()

	note, _, err := f.svc.CreateNote(context.Background(), userID, []byte("img"), "image/jpeg")
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		updated, _, err := f.svc.MarkRevised(context.Background(), userID, note.ID)
		require.NoError(t, err)
		if i >= 3 {
			assert.Equal(t, domain.ReviewStatusMastered, updated.Status)
		}
	}
}

func TestMarkRevisedUnknownNote(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, _, err := f.svc.MarkRevised(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestMarkRevisedSaveFailureKeepsStateAndAlerts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()

	note, _, err := f.svc.CreateNote(context.Background(), userID, []byte("img"), "image/jpeg")
	require.NoError(t, err)

	f.noteStore.mu.Lock()
	f.noteStore.failUpsert = true
	f.noteStore.mu.Unlock()
	f.stats.mu.Lock()
	f.stats.failSave = true
	f.stats.mu.Unlock()

	updated, stats, err := f.svc.MarkRevised(context.Background(), userID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusReview1, updated.Status)
	assert.Equal(t, 150, stats.XP)

	// Optimistic state survives the failed save.
	got, err := f.svc.GetNote(context.Background(), userID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusReview1, got.Status)

	// Both failures were reported as alerts.
	var alerts int
	for _, e := range f.emitter.all() {
		if e.Alert {
			alerts++
		}
	}
	assert.Equal(t, 2, alerts)
}

func TestCreateNoteSaveFailureStaysSilent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()

	// Load first so stats creation succeeds before failures are injected.
	_, err := f.svc.LoadState(context.Background(), userID)
	require.NoError(t, err)

	f.noteStore.mu.Lock()
	f.noteStore.failUpsert = true
	f.noteStore.mu.Unlock()

	note, _, err := f.svc.CreateNote(context.Background(), userID, []byte("img"), "image/jpeg")
	require.NoError(t, err)
	require.NotNil(t, note)

	for _, e := range f.emitter.all() {
		assert.False(t, e.Alert, "note-created save failures must not alert")
	}
}

func TestScheduleSessionDeduplicatesByDay(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()

	note, _, err := f.svc.CreateNote(context.Background(), userID, []byte("img"), "image/jpeg")
	require.NoError(t, err)

	day := time.Date(2026, time.September, 10, 9, 30, 0, 0, time.Local)
	first, err := f.svc.ScheduleSession(context.Background(), userID, note.ID, day)
	require.NoError(t, err)
	require.Len(t, first.StudySchedule, 1)
	assert.Equal(t, 12, first.StudySchedule[0].Hour())

	// Same calendar day at a different hour is a silent no-op.
	again, err := f.svc.ScheduleSession(context.Background(), userID, note.ID, day.Add(8*time.Hour))
	require.NoError(t, err)
	assert.Len(t, again.StudySchedule, 1)
}

func TestScheduleSessionUnknownNote(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.svc.ScheduleSession(context.Background(), uuid.New(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestGeneratePlanWithoutExamDateIsNoOp(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()

	note, _, err := f.svc.CreateNote(context.Background(), userID, []byte("img"), "image/jpeg")
	require.NoError(t, err)

	got, err := f.svc.GeneratePlan(context.Background(), userID, note.ID)
	require.NoError(t, err)
	assert.Empty(t, got.StudySchedule)
}

func TestGeneratePlanAnchorsToNow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()

	note, _, err := f.svc.CreateNote(context.Background(), userID, []byte("img"), "image/jpeg")
	require.NoError(t, err)

	now := time.Date(2026, time.September, 1, 15, 0, 0, 0, time.Local)
	f.svc.timeFunc = func() time.Time { return now }

	// Exam far in the future does not shift the offsets.
	_, err = f.svc.SetExamDate(context.Background(), userID, note.ID,
		time.Date(2027, time.June, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)

	planned, err := f.svc.GeneratePlan(context.Background(), userID, note.ID)
	require.NoError(t, err)

	require.Len(t, planned.StudySchedule, 3)
	assert.True(t, domain.SameCalendarDay(planned.StudySchedule[0], now.AddDate(0, 0, 1)))
	assert.True(t, domain.SameCalendarDay(planned.StudySchedule[1], now.AddDate(0, 0, 3)))
	assert.True(t, domain.SameCalendarDay(planned.StudySchedule[2], now.AddDate(0, 0, 7)))
	assert.Equal(t, domain.ReviewStatusNew, planned.Status)
}

func TestCalendarQueries(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()

	note, _, err := f.svc.CreateNote(context.Background(), userID, []byte("img"), "image/jpeg")
	require.NoError(t, err)

	day := time.Date(2026, time.October, 5, 0, 0, 0, 0, time.Local)
	_, err = f.svc.ScheduleSession(context.Background(), userID, note.ID, day)
	require.NoError(t, err)
	_, err = f.svc.SetExamDate(context.Background(), userID, note.ID, day)
	require.NoError(t, err)

	sessions, err := f.svc.SessionsOn(context.Background(), userID, day.Add(23*time.Hour))
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	exams, err := f.svc.ExamsOn(context.Background(), userID, day)
	require.NoError(t, err)
	require.Len(t, exams, 1)
	assert.Equal(t, note.ID, exams[0].ID)

	none, err := f.svc.SessionsOn(context.Background(), userID, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLoadStateReturnsDetachedNotes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	userID := uuid.New()

	note, _, err := f.svc.CreateNote(context.Background(), userID, []byte("img"), "image/jpeg")
	require.NoError(t, err)

	state, err := f.svc.LoadState(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, state.Notes, 1)

	// Mutating a returned note must not reach into the service's state.
	state.Notes[0].Title = "scribbled over"
	state.Notes[0].StudySchedule = append(state.Notes[0].StudySchedule, time.Now())

	got, err := f.svc.GetNote(context.Background(), userID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis", got.Title)
	assert.Empty(t, got.StudySchedule)
}
