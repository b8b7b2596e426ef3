package domain

import (
	"errors"
	"testing"
)

func TestAdvanceStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from ReviewStatus
		want ReviewStatus
	}{
		{ReviewStatusNew, ReviewStatusReview1},
		{ReviewStatusReview1, ReviewStatusReview3},
		{ReviewStatusReview3, ReviewStatusReview7},
		{ReviewStatusReview7, ReviewStatusMastered},
		{ReviewStatusMastered, ReviewStatusMastered},
	}

	for _, tc := range cases {
		got, err := AdvanceStatus(tc.from)
		if err != nil {
			t.Fatalf("AdvanceStatus(%s): unexpected error %v", tc.from, err)
		}
		if got != tc.want {
			t.Errorf("AdvanceStatus(%s) = %s, want %s", tc.from, got, tc.want)
		}
	}
}

func TestAdvanceStatusMasteredIsAbsorbing(t *testing.T) {
	t.Parallel()

	s := ReviewStatusMastered
	for i := 0; i < 5; i++ {
		next, err := AdvanceStatus(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next != ReviewStatusMastered {
			t.Fatalf("iteration %d: expected mastered, got %s", i, next)
		}
		s = next
	}
}

func TestAdvanceStatusRejectsUnknown(t *testing.T) {
	t.Parallel()

	_, err := AdvanceStatus(ReviewStatus("graduated"))
	if !errors.Is(err, ErrInvalidReviewStatus) {
		t.Errorf("expected ErrInvalidReviewStatus, got %v", err)
	}
}

func TestReviewStatusIsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []ReviewStatus{
		ReviewStatusNew, ReviewStatusReview1, ReviewStatusReview3,
		ReviewStatusReview7, ReviewStatusMastered,
	} {
		if !s.IsValid() {
			t.Errorf("expected %s to be valid", s)
		}
	}

	if ReviewStatus("").IsValid() {
		t.Error("expected empty status to be invalid")
	}
}
