package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neoclass/neoclass-api/internal/calendar"
	"github.com/neoclass/neoclass-api/internal/domain"
	"github.com/neoclass/neoclass-api/internal/domain/sched"
	"github.com/neoclass/neoclass-api/internal/service"
)

func newCalendarHandler(stub *stubReviewService) *CalendarHandler {
	return NewCalendarHandler(stub, calendar.NewAssigner(sched.NewDefaultService()))
}

func TestGetDayReturnsSessionsAndExams(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	note := testNote(t, userID)
	stub := &stubReviewService{note: note}
	handler := newCalendarHandler(stub)

	req := withAuthedRequest(http.MethodGet, "/api/calendar/day?date=2026-09-10", nil, userID)
	rr := httptest.NewRecorder()
	handler.GetDay(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp CalendarDayResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "2026-09-10", resp.Date)
	assert.Len(t, resp.Sessions, 1)
	assert.NotNil(t, resp.Exams)
}

func TestGetDayRejectsBadDate(t *testing.T) {
	t.Parallel()

	handler := newCalendarHandler(&stubReviewService{})

	req := withAuthedRequest(http.MethodGet, "/api/calendar/day?date=10-09-2026", nil, uuid.New())
	rr := httptest.NewRecorder()
	handler.GetDay(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetMonthCountsDueNotes(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	note := testNote(t, userID)
	day := time.Date(2026, time.February, 14, 12, 0, 0, 0, time.Local)
	note.StudySchedule = []time.Time{day}
	exam := time.Date(2026, time.February, 20, 12, 0, 0, 0, time.Local)
	note.ExamDate = &exam

	stats, err := domain.NewUserStats(userID)
	require.NoError(t, err)
	stub := &stubReviewService{state: &service.UserState{
		Notes: []*domain.Note{note},
		Stats: stats,
	}}
	handler := newCalendarHandler(stub)

	req := withAuthedRequest(http.MethodGet, "/api/calendar/month?year=2026&month=2", nil, userID)
	rr := httptest.NewRecorder()
	handler.GetMonth(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp CalendarMonthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, 2, resp.Month)
	require.Len(t, resp.Days, 28)

	var sessionDays, examDays int
	for _, d := range resp.Days {
		sessionDays += d.SessionCount
		examDays += d.ExamCount
		if d.Date == "2026-02-14" {
			assert.Equal(t, 1, d.SessionCount)
		}
		if d.Date == "2026-02-20" {
			assert.Equal(t, 1, d.ExamCount)
		}
	}
	assert.Equal(t, 1, sessionDays)
	assert.Equal(t, 1, examDays)
}

func TestGetMonthRejectsBadMonth(t *testing.T) {
	t.Parallel()

	handler := newCalendarHandler(&stubReviewService{})

	req := withAuthedRequest(http.MethodGet, "/api/calendar/month?year=2026&month=13", nil, uuid.New())
	rr := httptest.NewRecorder()
	handler.GetMonth(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
