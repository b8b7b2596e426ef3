package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/neoclass/neoclass-api/internal/domain"
)

// UserStatsStore defines the interface for gamification stats persistence.
// Stats are keyed by user; saves are whole-snapshot and last-write-wins.
type UserStatsStore interface {
	// Save inserts or fully replaces the stats row for the user.
	Save(ctx context.Context, stats *domain.UserStats) error

	// Get retrieves the stats for a user.
	// Returns ErrUserStatsNotFound if no stats row exists yet.
	Get(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error)
}
