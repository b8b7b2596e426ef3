package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MandalaProgressMax is the upper bound of the mastery-ring fill value.
// Progress is clamped to [0, MandalaProgressMax] on every update.
const MandalaProgressMax = 100

// Common validation errors for UserStats
var (
	ErrEmptyStatsUserID      = errors.New("user stats user ID cannot be empty")
	ErrNegativeStreak        = errors.New("streak cannot be negative")
	ErrNegativeXP            = errors.New("xp cannot be negative")
	ErrMandalaOutOfRange     = errors.New("mandala progress must be within [0,100]")
	ErrNonPositiveStatsLevel = errors.New("level must be at least 1")
)

// UserStats tracks a user's gamification counters. Streak, XP, and mandala
// progress are mutated additively by lifecycle events; Level is a derived
// display value owned by the presentation layer and carried untouched here.
type UserStats struct {
	UserID          uuid.UUID `json:"user_id"`
	Streak          int       `json:"streak"`
	XP              int       `json:"xp"`
	MandalaProgress int       `json:"mandala_progress"`
	Level           int       `json:"level"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewUserStats creates zero-valued statistics for a user.
func NewUserStats(userID uuid.UUID) (*UserStats, error) {
	now := time.Now().UTC()
	stats := &UserStats{
		UserID:          userID,
		Streak:          0,
		XP:              0,
		MandalaProgress: 0,
		Level:           1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := stats.Validate(); err != nil {
		return nil, err
	}

	return stats, nil
}

// Validate checks if the UserStats has valid data.
// Returns an error if any field fails validation.
func (s *UserStats) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyStatsUserID
	}

	if s.Streak < 0 {
		return ErrNegativeStreak
	}

	if s.XP < 0 {
		return ErrNegativeXP
	}

	if s.MandalaProgress < 0 || s.MandalaProgress > MandalaProgressMax {
		return ErrMandalaOutOfRange
	}

	if s.Level < 1 {
		return ErrNonPositiveStatsLevel
	}

	return nil
}

// Clone returns a copy of the stats. The gamification ledger returns new
// instances rather than modifying existing ones.
func (s *UserStats) Clone() *UserStats {
	out := *s
	return &out
}
