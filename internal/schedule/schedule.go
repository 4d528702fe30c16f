// Package schedule computes wall-clock key rotation instants. All
// calculations happen in the location of the instants passed in, so with
// time.Now() values rotation follows the host's local clock, which is what
// administrators configuring an hour of day expect.
package schedule

import "time"

// NextRotation returns the next instant the shared key is due to be
// replaced: today at hourOfDay:00:00 if that is still ahead of now,
// otherwise the same wall-clock time on the following day.
func NextRotation(hourOfDay int, now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hourOfDay, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Elapsed reports whether now has reached or passed next.
func Elapsed(next, now time.Time) bool {
	return !now.Before(next)
}
