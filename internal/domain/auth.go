package domain

import "time"

// Session represents an issued staff session token and its metadata.
type Session struct {
	Token     string
	Staff     StaffIdentity
	IssuedAt  time.Time
	ExpiresAt time.Time
}
