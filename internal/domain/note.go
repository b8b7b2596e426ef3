package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Note-specific validation errors
var (
	// ErrNoteIDEmpty is returned when a note ID is empty or nil.
	ErrNoteIDEmpty = errors.New("note ID cannot be empty")

	// ErrNoteUserIDEmpty is returned when a note's user ID is empty or nil.
	ErrNoteUserIDEmpty = errors.New("note user ID cannot be empty")

	// ErrNoteTitleEmpty is returned when a note's title is empty.
	ErrNoteTitleEmpty = errors.New("note title cannot be empty")

	// ErrDuplicateSession is returned when a schedule entry for the same
	// calendar day already exists on the note.
	ErrDuplicateSession = errors.New("session already scheduled for this day")
)

// QuizItem is a single question/answer pair generated from a note's text.
type QuizItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Note represents a digitized study note produced by the vision analysis
// service and tracked through the review lifecycle. The descriptive fields
// (title, subject, summary, original text, cues, quiz, tags) are carried
// unmodified by the scheduling core.
type Note struct {
	ID            uuid.UUID    `json:"id"`
	UserID        uuid.UUID    `json:"user_id"`
	Title         string       `json:"title"`
	Subject       string       `json:"subject"`
	Summary       string       `json:"summary"`
	OriginalText  string       `json:"original_text"`
	Cues          []string     `json:"cues"`
	Quiz          []QuizItem   `json:"quiz"`
	Tags          []string     `json:"tags"`
	Status        ReviewStatus `json:"status"`
	StudySchedule []time.Time  `json:"study_schedule"`
	ExamDate      *time.Time   `json:"exam_date,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewNote creates a new Note for the given user with the given descriptive
// fields. It generates a new UUID for the note ID, sets the status to new,
// and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewNote(userID uuid.UUID, title, subject, summary, originalText string,
	cues []string, quiz []QuizItem, tags []string) (*Note, error) {
	now := time.Now().UTC()
	note := &Note{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        title,
		Subject:      subject,
		Summary:      summary,
		OriginalText: originalText,
		Cues:         cues,
		Quiz:         quiz,
		Tags:         tags,
		Status:       ReviewStatusNew,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
// Returns an error if any field fails validation.
func (n *Note) Validate() error {
	if n.ID == uuid.Nil {
		return ErrNoteIDEmpty
	}

	if n.UserID == uuid.Nil {
		return ErrNoteUserIDEmpty
	}

	if n.Title == "" {
		return ErrNoteTitleEmpty
	}

	if !n.Status.IsValid() {
		return ErrInvalidReviewStatus
	}

	// The study schedule is a set keyed by calendar day.
	for i := range n.StudySchedule {
		for j := i + 1; j < len(n.StudySchedule); j++ {
			if SameCalendarDay(n.StudySchedule[i], n.StudySchedule[j]) {
				return ErrDuplicateSession
			}
		}
	}

	return nil
}

// HasSessionOn reports whether the note's study schedule already contains
// an entry on the same calendar day as the given reference.
func (n *Note) HasSessionOn(day time.Time) bool {
	for _, s := range n.StudySchedule {
		if SameCalendarDay(s, day) {
			return true
		}
	}
	return false
}

// HasExamOn reports whether the note's exam date falls on the same
// calendar day as the given reference.
func (n *Note) HasExamOn(day time.Time) bool {
	return n.ExamDate != nil && SameCalendarDay(*n.ExamDate, day)
}

// Clone returns a deep copy of the note. Scheduling operations work on
// copies so callers keep an unmodified value until the change is accepted.
func (n *Note) Clone() *Note {
	out := *n
	out.Cues = append([]string(nil), n.Cues...)
	out.Quiz = append([]QuizItem(nil), n.Quiz...)
	out.Tags = append([]string(nil), n.Tags...)
	out.StudySchedule = append([]time.Time(nil), n.StudySchedule...)
	if n.ExamDate != nil {
		d := *n.ExamDate
		out.ExamDate = &d
	}
	return &out
}
