package domain

import "time"

// SameCalendarDay reports whether two timestamps fall on the same local
// calendar date, irrespective of time-of-day.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// NoonOf returns the canonical timestamp for the calendar day of t:
// the same date at 12:00 local time. Anchoring sessions at local noon
// keeps them on the intended day across timezone boundaries.
func NoonOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}
