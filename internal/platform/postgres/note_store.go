package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/neoclass/neoclass-api/internal/domain"
	"github.com/neoclass/neoclass-api/internal/platform/logger"
	"github.com/neoclass/neoclass-api/internal/store"
)

// PostgresNoteStore implements the store.NoteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresNoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNoteStore creates a new PostgreSQL implementation of the NoteStore interface.
// It accepts a database connection or transaction that should be initialized and managed
// by the caller. If logger is nil, the default logger is used.
func NewPostgresNoteStore(db store.DBTX, logger *slog.Logger) *PostgresNoteStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

// Ensure PostgresNoteStore implements store.NoteStore interface
var _ store.NoteStore = (*PostgresNoteStore)(nil)

// noteJSONColumns holds the marshaled JSONB payloads of a note's slice fields.
type noteJSONColumns struct {
	cues     []byte
	quiz     []byte
	tags     []byte
	schedule []byte
}

func marshalNoteColumns(note *domain.Note) (noteJSONColumns, error) {
	var cols noteJSONColumns
	var err error

	if cols.cues, err = json.Marshal(note.Cues); err != nil {
		return cols, fmt.Errorf("failed to marshal cues: %w", err)
	}
	if cols.quiz, err = json.Marshal(note.Quiz); err != nil {
		return cols, fmt.Errorf("failed to marshal quiz: %w", err)
	}
	if cols.tags, err = json.Marshal(note.Tags); err != nil {
		return cols, fmt.Errorf("failed to marshal tags: %w", err)
	}
	if cols.schedule, err = json.Marshal(note.StudySchedule); err != nil {
		return cols, fmt.Errorf("failed to marshal study schedule: %w", err)
	}

	return cols, nil
}

// Upsert implements store.NoteStore.Upsert
// It saves the note, inserting a new row or fully replacing the existing one
// by id. Each save carries a complete snapshot of the note.
// Returns validation errors from the domain Note if data is invalid.
// Returns store.ErrInvalidEntity if the user ID doesn't exist (foreign key violation).
func (s *PostgresNoteStore) Upsert(ctx context.Context, note *domain.Note) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		log.Warn("note validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return err
	}

	cols, err := marshalNoteColumns(note)
	if err != nil {
		log.Error("failed to encode note fields",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return err
	}

	var examDate sql.NullTime
	if note.ExamDate != nil {
		examDate = sql.NullTime{Time: *note.ExamDate, Valid: true}
	}

	query := `
		INSERT INTO notes (id, user_id, title, subject, summary, original_text,
			cues, quiz, tags, status, study_schedule, exam_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			subject = EXCLUDED.subject,
			summary = EXCLUDED.summary,
			original_text = EXCLUDED.original_text,
			cues = EXCLUDED.cues,
			quiz = EXCLUDED.quiz,
			tags = EXCLUDED.tags,
			status = EXCLUDED.status,
			study_schedule = EXCLUDED.study_schedule,
			exam_date = EXCLUDED.exam_date,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(
		ctx,
		query,
		note.ID,
		note.UserID,
		note.Title,
		note.Subject,
		note.Summary,
		note.OriginalText,
		cols.cues,
		cols.quiz,
		cols.tags,
		note.Status,
		cols.schedule,
		examDate,
		note.CreatedAt,
		note.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during note upsert",
				slog.String("error", err.Error()),
				slog.String("note_id", note.ID.String()),
				slog.String("user_id", note.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, note.UserID)
		}

		log.Error("failed to upsert note",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()),
			slog.String("user_id", note.UserID.String()))
		return err
	}

	log.Debug("note upserted successfully",
		slog.String("note_id", note.ID.String()),
		slog.String("user_id", note.UserID.String()),
		slog.String("status", string(note.Status)))
	return nil
}

// GetByID implements store.NoteStore.GetByID
// It retrieves a note by its unique ID.
// Returns store.ErrNoteNotFound if the note does not exist.
func (s *PostgresNoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, subject, summary, original_text,
			cues, quiz, tags, status, study_schedule, exam_date, created_at, updated_at
		FROM notes
		WHERE id = $1
	`

	note, err := s.scanNote(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("note not found", slog.String("note_id", id.String()))
			return nil, store.ErrNoteNotFound
		}
		log.Error("failed to get note by ID",
			slog.String("error", err.Error()),
			slog.String("note_id", id.String()))
		return nil, err
	}

	return note, nil
}

// ListByUser implements store.NoteStore.ListByUser
// It retrieves all notes belonging to the user, newest first.
// Returns an empty slice when the user has no notes.
func (s *PostgresNoteStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, subject, summary, original_text,
			cues, quiz, tags, status, study_schedule, exam_date, created_at, updated_at
		FROM notes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query notes by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	notes := []*domain.Note{}
	for rows.Next() {
		note, err := s.scanNote(rows)
		if err != nil {
			log.Error("failed to scan note row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	log.Debug("listed notes by user",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(notes)))
	return notes, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *PostgresNoteStore) scanNote(row rowScanner) (*domain.Note, error) {
	var note domain.Note
	var status string
	var cues, quiz, tags, schedule []byte
	var examDate sql.NullTime

	err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.Title,
		&note.Subject,
		&note.Summary,
		&note.OriginalText,
		&cues,
		&quiz,
		&tags,
		&status,
		&schedule,
		&examDate,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	note.Status = domain.ReviewStatus(status)

	if err := json.Unmarshal(cues, &note.Cues); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cues: %w", err)
	}
	if err := json.Unmarshal(quiz, &note.Quiz); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quiz: %w", err)
	}
	if err := json.Unmarshal(tags, &note.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	if err := json.Unmarshal(schedule, &note.StudySchedule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal study schedule: %w", err)
	}

	// Stored timestamps come back in whatever zone the driver decoded
	// (JSONB entries carry an RFC 3339 offset, timestamptz is typically
	// handed back as UTC); bring them into the process's local zone so
	// calendar-day comparisons behave the same as with freshly built values.
	if examDate.Valid {
		d := examDate.Time.In(time.Local)
		note.ExamDate = &d
	}
	for i := range note.StudySchedule {
		note.StudySchedule[i] = note.StudySchedule[i].In(time.Local)
	}

	return &note, nil
}
