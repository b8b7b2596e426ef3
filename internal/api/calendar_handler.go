package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/neoclass/neoclass-api/internal/api/shared"
	"github.com/neoclass/neoclass-api/internal/calendar"
	"github.com/neoclass/neoclass-api/internal/domain"
	"github.com/neoclass/neoclass-api/internal/service"
)

// CalendarHandler handles calendar view API requests: per-day due queries
// and the month display.
type CalendarHandler struct {
	reviewService service.ReviewService
	assigner      *calendar.Assigner
}

// NewCalendarHandler creates a new CalendarHandler with the given dependencies.
func NewCalendarHandler(reviewService service.ReviewService, assigner *calendar.Assigner) *CalendarHandler {
	if reviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewService cannot be nil for CalendarHandler")
	}
	if assigner == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("assigner cannot be nil for CalendarHandler")
	}
	return &CalendarHandler{
		reviewService: reviewService,
		assigner:      assigner,
	}
}

// GetDay handles GET /calendar/day?date=YYYY-MM-DD.
// It returns the sessions and exams due on that calendar day. Without a
// date parameter it answers for today.
func (h *CalendarHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := parseDay(raw)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		day = parsed
	}

	sessions, err := h.reviewService.SessionsOn(r.Context(), userID, day)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	exams, err := h.reviewService.ExamsOn(r.Context(), userID, day)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if sessions == nil {
		sessions = []*domain.Note{}
	}
	if exams == nil {
		exams = []*domain.Note{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CalendarDayResponse{
		Date:     day.Format(dayLayout),
		Sessions: sessions,
		Exams:    exams,
	})
}

// GetMonth handles GET /calendar/month?year=YYYY&month=M.
// It returns per-day session and exam counts for the whole month. Without
// parameters it answers for the current month.
func (h *CalendarHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	cursor := calendar.NewMonthCursor(time.Now())
	if rawYear, rawMonth := r.URL.Query().Get("year"), r.URL.Query().Get("month"); rawYear != "" || rawMonth != "" {
		year, err := strconv.Atoi(rawYear)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid year parameter")
			return
		}
		month, err := strconv.Atoi(rawMonth)
		if err != nil || month < 1 || month > 12 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid month parameter")
			return
		}
		cursor = calendar.NewMonthCursor(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local))
	}

	state, err := h.reviewService.LoadState(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	days := cursor.Days(time.Local)
	out := make([]CalendarMonthDay, 0, len(days))
	for _, day := range days {
		out = append(out, CalendarMonthDay{
			Date:         day.Format(dayLayout),
			SessionCount: len(h.assigner.SessionsOn(state.Notes, day)),
			ExamCount:    len(h.assigner.ExamsOn(state.Notes, day)),
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CalendarMonthResponse{
		Year:  cursor.Year(),
		Month: int(cursor.Month()),
		Days:  out,
	})
}
