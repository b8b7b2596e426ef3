package domain

// ReviewStatus represents a note's position in the fixed five-stage
// review progression.
type ReviewStatus string

// Possible review status values, in progression order.
const (
	ReviewStatusNew      ReviewStatus = "new"
	ReviewStatusReview1  ReviewStatus = "review_1"
	ReviewStatusReview3  ReviewStatus = "review_3"
	ReviewStatusReview7  ReviewStatus = "review_7"
	ReviewStatusMastered ReviewStatus = "mastered"
)

// IsValid checks if the given status is a known ReviewStatus.
func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewStatusNew, ReviewStatusReview1, ReviewStatusReview3,
		ReviewStatusReview7, ReviewStatusMastered:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status is the absorbing mastered state.
func (s ReviewStatus) IsTerminal() bool {
	return s == ReviewStatusMastered
}

// AdvanceStatus returns the status that follows s in the progression.
// The progression is forward-only and mastered is absorbing:
//
//	new -> review_1 -> review_3 -> review_7 -> mastered -> mastered
//
// Returns ErrInvalidReviewStatus if s is not part of the progression.
func AdvanceStatus(s ReviewStatus) (ReviewStatus, error) {
	switch s {
	case ReviewStatusNew:
		return ReviewStatusReview1, nil
	case ReviewStatusReview1:
		return ReviewStatusReview3, nil
	case ReviewStatusReview3:
		return ReviewStatusReview7, nil
	case ReviewStatusReview7:
		return ReviewStatusMastered, nil
	case ReviewStatusMastered:
		return ReviewStatusMastered, nil
	default:
		return "", ErrInvalidReviewStatus
	}
}
