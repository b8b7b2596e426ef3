package api

import (
	"encoding/base64"
	"net/http"

	"github.com/neoclass/neoclass-api/internal/api/shared"
	"github.com/neoclass/neoclass-api/internal/service"
)

// NoteHandler handles note lifecycle API requests: creation from images,
// review progression, and scheduling.
type NoteHandler struct {
	reviewService service.ReviewService
}

// NewNoteHandler creates a new NoteHandler with the given dependencies.
func NewNoteHandler(reviewService service.ReviewService) *NoteHandler {
	if reviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewService cannot be nil for NoteHandler")
	}
	return &NoteHandler{
		reviewService: reviewService,
	}
}

// GetState handles GET /state.
// It returns the user's full note collection and gamification counters.
func (h *NoteHandler) GetState(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	state, err := h.reviewService.LoadState(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StateResponse{
		Notes: state.Notes,
		Stats: state.Stats,
	})
}

// CreateNote handles POST /notes.
// It decodes the uploaded image and creates a note from its analysis.
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	imageData, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Image must be base64 encoded")
		return
	}

	note, stats, err := h.reviewService.CreateNote(r.Context(), userID, imageData, req.MimeType)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NoteResponse{Note: note, Stats: stats})
}

// GetNote handles GET /notes/{id}.
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := requireUserAndNote(w, r)
	if !ok {
		return
	}

	note, err := h.reviewService.GetNote(r.Context(), userID, noteID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NoteResponse{Note: note})
}

// MarkRevised handles POST /notes/{id}/revised.
// It advances the note one lifecycle step and applies the revision rewards.
func (h *NoteHandler) MarkRevised(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := requireUserAndNote(w, r)
	if !ok {
		return
	}

	note, stats, err := h.reviewService.MarkRevised(r.Context(), userID, noteID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NoteResponse{Note: note, Stats: stats})
}

// ScheduleSession handles POST /notes/{id}/sessions.
// It contributes an ad-hoc study session on the requested calendar day.
func (h *NoteHandler) ScheduleSession(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := requireUserAndNote(w, r)
	if !ok {
		return
	}

	var req ScheduleSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	day, err := parseDay(req.Day)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	note, err := h.reviewService.ScheduleSession(r.Context(), userID, noteID, day)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NoteResponse{Note: note})
}

// SetExamDate handles PUT /notes/{id}/exam.
func (h *NoteHandler) SetExamDate(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := requireUserAndNote(w, r)
	if !ok {
		return
	}

	var req SetExamDateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	examDate, err := parseDay(req.ExamDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	note, err := h.reviewService.SetExamDate(r.Context(), userID, noteID, examDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NoteResponse{Note: note})
}

// GeneratePlan handles POST /notes/{id}/plan.
// Without an exam date on the note this is a no-op that returns the note
// unchanged.
func (h *NoteHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := requireUserAndNote(w, r)
	if !ok {
		return
	}

	note, err := h.reviewService.GeneratePlan(r.Context(), userID, noteID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NoteResponse{Note: note})
}
