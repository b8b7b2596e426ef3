package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/neoclass/neoclass-api/internal/analysis"
	"github.com/neoclass/neoclass-api/internal/calendar"
	"github.com/neoclass/neoclass-api/internal/config"
	"github.com/neoclass/neoclass-api/internal/domain/sched"
	"github.com/neoclass/neoclass-api/internal/events"
	"github.com/neoclass/neoclass-api/internal/platform/gemini"
	"github.com/neoclass/neoclass-api/internal/platform/postgres"
	"github.com/neoclass/neoclass-api/internal/service"
	"github.com/neoclass/neoclass-api/internal/service/auth"
	"github.com/neoclass/neoclass-api/internal/store"
	"github.com/neoclass/neoclass-api/internal/task"
)

// application holds all initialized dependencies for the server.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore  store.UserStore
	noteStore  store.NoteStore
	statsStore store.UserStatsStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	analyzer         analysis.Analyzer
	scheduler        sched.Service
	assigner         *calendar.Assigner
	reviewService    service.ReviewService

	// Event system
	eventEmitter events.EventEmitter

	// Task handling
	taskRunner *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password verifier
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	app.noteStore = postgres.NewPostgresNoteStore(db, logger)
	app.statsStore = postgres.NewPostgresUserStatsStore(db, logger)

	// Initialize the vision analyzer
	app.analyzer, err = gemini.NewGeminiAnalyzer(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize note analyzer: %w", err)
	}
	logger.Info("note analyzer initialized", "model", cfg.LLM.ModelName)

	// Initialize scheduling
	app.scheduler = sched.NewDefaultService()
	app.assigner = calendar.NewAssigner(app.scheduler)

	// Initialize the event system with a logging handler for save outcomes
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewLoggingEventHandler(logger))
	app.eventEmitter = emitter

	// Initialize the background persistence runner
	app.taskRunner = task.NewTaskRunner(task.TaskRunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)
	app.taskRunner.Start()

	// Initialize the review service
	app.reviewService = service.NewReviewService(
		app.noteStore,
		app.statsStore,
		app.analyzer,
		app.scheduler,
		app.assigner,
		app.taskRunner,
		app.eventEmitter,
		logger,
	)

	logger.Info("application initialized")
	return app, nil
}

// cleanup releases application resources during shutdown.
func (app *application) cleanup() {
	app.taskRunner.Stop()
	app.logger.Info("background task runner stopped")
}
