package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewUserStats(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	stats, err := NewUserStats(userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if stats.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, stats.UserID)
	}
	if stats.Streak != 0 || stats.XP != 0 || stats.MandalaProgress != 0 {
		t.Errorf("Expected zero counters, got streak=%d xp=%d mandala=%d",
			stats.Streak, stats.XP, stats.MandalaProgress)
	}
	if stats.Level != 1 {
		t.Errorf("Expected level 1, got %d", stats.Level)
	}

	_, err = NewUserStats(uuid.Nil)
	if !errors.Is(err, ErrEmptyStatsUserID) {
		t.Errorf("Expected ErrEmptyStatsUserID, got %v", err)
	}
}

func TestUserStatsValidate(t *testing.T) {
	t.Parallel()

	base := UserStats{UserID: uuid.New(), Level: 1}

	cases := []struct {
		name   string
		mutate func(*UserStats)
		want   error
	}{
		{"negative streak", func(s *UserStats) { s.Streak = -1 }, ErrNegativeStreak},
		{"negative xp", func(s *UserStats) { s.XP = -50 }, ErrNegativeXP},
		{"mandala below range", func(s *UserStats) { s.MandalaProgress = -1 }, ErrMandalaOutOfRange},
		{"mandala above range", func(s *UserStats) { s.MandalaProgress = 101 }, ErrMandalaOutOfRange},
		{"zero level", func(s *UserStats) { s.Level = 0 }, ErrNonPositiveStatsLevel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := base
			tc.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}

	if err := base.Validate(); err != nil {
		t.Errorf("Expected valid stats, got %v", err)
	}
}
