package domain

import "time"

// AttemptRecord counts consecutive failed logins for one staff member.
type AttemptRecord struct {
	StaffID      string
	Attempts     int
	LockoutUntil time.Time
	UpdatedAt    time.Time
}

// LockedAt reports whether the record blocks logins at now.
func (a *AttemptRecord) LockedAt(now time.Time) bool {
	return a != nil && !a.LockoutUntil.IsZero() && a.LockoutUntil.After(now)
}

// RetryAfter returns the remaining lockout at now, or zero.
func (a *AttemptRecord) RetryAfter(now time.Time) time.Duration {
	if !a.LockedAt(now) {
		return 0
	}
	return a.LockoutUntil.Sub(now)
}
