package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/neoclass/neoclass-api/internal/api"
	apiMiddleware "github.com/neoclass/neoclass-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	noteHandler := api.NewNoteHandler(app.reviewService)
	calendarHandler := api.NewCalendarHandler(app.reviewService, app.assigner)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Full client state
			r.Get("/state", noteHandler.GetState)

			// Note lifecycle endpoints
			r.Post("/notes", noteHandler.CreateNote)
			r.Get("/notes/{id}", noteHandler.GetNote)
			r.Post("/notes/{id}/revised", noteHandler.MarkRevised)
			r.Post("/notes/{id}/sessions", noteHandler.ScheduleSession)
			r.Put("/notes/{id}/exam", noteHandler.SetExamDate)
			r.Post("/notes/{id}/plan", noteHandler.GeneratePlan)

			// Calendar endpoints
			r.Get("/calendar/day", calendarHandler.GetDay)
			r.Get("/calendar/month", calendarHandler.GetMonth)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
