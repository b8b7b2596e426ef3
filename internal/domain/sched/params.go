package sched

import "errors"

// Default fixed-offset plan: sessions 1, 3, and 7 days after generation.
var defaultPlanOffsetDays = []int{1, 3, 7}

// ErrInvalidOffsets is returned when plan offsets are empty or non-positive.
var ErrInvalidOffsets = errors.New("plan offsets must be positive day counts")

// Params holds the tunable values of the scheduling policy.
type Params struct {
	// PlanOffsetDays are the day offsets, relative to the moment of plan
	// generation, at which revision sessions are placed.
	PlanOffsetDays []int
}

// NewDefaultParams returns the standard 1-3-7 parameters.
func NewDefaultParams() *Params {
	return &Params{
		PlanOffsetDays: append([]int(nil), defaultPlanOffsetDays...),
	}
}

// Validate checks that the parameters describe a usable plan.
func (p *Params) Validate() error {
	if len(p.PlanOffsetDays) == 0 {
		return ErrInvalidOffsets
	}
	for _, d := range p.PlanOffsetDays {
		if d <= 0 {
			return ErrInvalidOffsets
		}
	}
	return nil
}
