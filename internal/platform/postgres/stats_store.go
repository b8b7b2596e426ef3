package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/neoclass/neoclass-api/internal/domain"
	"github.com/neoclass/neoclass-api/internal/platform/logger"
	"github.com/neoclass/neoclass-api/internal/store"
)

// PostgresUserStatsStore implements the store.UserStatsStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStatsStore creates a new PostgreSQL implementation of the
// UserStatsStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil,
// the default logger is used.
func NewPostgresUserStatsStore(db store.DBTX, logger *slog.Logger) *PostgresUserStatsStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_stats_store")),
	}
}

// Ensure PostgresUserStatsStore implements store.UserStatsStore interface
var _ store.UserStatsStore = (*PostgresUserStatsStore)(nil)

// Save implements store.UserStatsStore.Save
// It inserts or fully replaces the stats row for the user. Saves are
// last-write-wins: no version check is performed.
// Returns validation errors from the domain UserStats if data is invalid.
// Returns store.ErrInvalidEntity if the user ID doesn't exist (foreign key violation).
func (s *PostgresUserStatsStore) Save(ctx context.Context, stats *domain.UserStats) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := stats.Validate(); err != nil {
		log.Warn("user stats validation failed during save",
			slog.String("error", err.Error()),
			slog.String("user_id", stats.UserID.String()))
		return err
	}

	query := `
		INSERT INTO user_stats (user_id, streak, xp, mandala_progress, level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			streak = EXCLUDED.streak,
			xp = EXCLUDED.xp,
			mandala_progress = EXCLUDED.mandala_progress,
			level = EXCLUDED.level,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		stats.UserID,
		stats.Streak,
		stats.XP,
		stats.MandalaProgress,
		stats.Level,
		stats.CreatedAt,
		stats.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during stats save",
				slog.String("error", err.Error()),
				slog.String("user_id", stats.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, stats.UserID)
		}

		log.Error("failed to save user stats",
			slog.String("error", err.Error()),
			slog.String("user_id", stats.UserID.String()))
		return err
	}

	log.Debug("user stats saved successfully",
		slog.String("user_id", stats.UserID.String()),
		slog.Int("xp", stats.XP),
		slog.Int("streak", stats.Streak))
	return nil
}

// Get implements store.UserStatsStore.Get
// It retrieves the stats for a user.
// Returns store.ErrUserStatsNotFound if no stats row exists yet.
func (s *PostgresUserStatsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, streak, xp, mandala_progress, level, created_at, updated_at
		FROM user_stats
		WHERE user_id = $1
	`

	var stats domain.UserStats
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.UserID,
		&stats.Streak,
		&stats.XP,
		&stats.MandalaProgress,
		&stats.Level,
		&stats.CreatedAt,
		&stats.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user stats not found", slog.String("user_id", userID.String()))
			return nil, store.ErrUserStatsNotFound
		}
		log.Error("failed to get user stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return &stats, nil
}
