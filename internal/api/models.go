package api

import (
	"github.com/google/uuid"

	"github.com/neoclass/neoclass-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Grade    string `json:"grade"    validate:"max=50"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Name is the user's display name
	Name string `json:"name"`

	// Grade is the user's school grade
	Grade string `json:"grade,omitempty"`

	// Token is the JWT used for API authorization
	Token string `json:"token"`
}

// CreateNoteRequest defines the payload for creating a note from an image.
// The image is carried base64-encoded in the JSON body.
type CreateNoteRequest struct {
	Image    string `json:"image"     validate:"required"`
	MimeType string `json:"mime_type" validate:"omitempty,max=100"`
}

// ScheduleSessionRequest defines the payload for adding or moving a study
// session. Day is a calendar date in YYYY-MM-DD form.
type ScheduleSessionRequest struct {
	Day string `json:"day" validate:"required,datetime=2006-01-02"`
}

// SetExamDateRequest defines the payload for recording a note's exam date.
type SetExamDateRequest struct {
	ExamDate string `json:"exam_date" validate:"required,datetime=2006-01-02"`
}

// NoteResponse wraps a note together with the stats affected by the
// operation, when any were.
type NoteResponse struct {
	Note  *domain.Note      `json:"note"`
	Stats *domain.UserStats `json:"stats,omitempty"`
}

// StateResponse is the full client-facing snapshot of a user's data.
type StateResponse struct {
	Notes []*domain.Note    `json:"notes"`
	Stats *domain.UserStats `json:"stats"`
}

// CalendarDayResponse lists the notes due on a single calendar day.
type CalendarDayResponse struct {
	Date     string         `json:"date"`
	Sessions []*domain.Note `json:"sessions"`
	Exams    []*domain.Note `json:"exams"`
}

// CalendarMonthDay is one day's due counts in a month view.
type CalendarMonthDay struct {
	Date         string `json:"date"`
	SessionCount int    `json:"session_count"`
	ExamCount    int    `json:"exam_count"`
}

// CalendarMonthResponse is the month view: per-day due counts for every
// day of the cursor's month.
type CalendarMonthResponse struct {
	Year  int                `json:"year"`
	Month int                `json:"month"`
	Days  []CalendarMonthDay `json:"days"`
}
