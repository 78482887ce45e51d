package domain

import "time"

// StaffRecord models a provisioned hospital staff member.
type StaffRecord struct {
	StaffID      string
	FullName     string
	Department   string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the first-use bootstrap already happened.
func (s *StaffRecord) HasPassword() bool {
	return s != nil && s.PasswordHash != ""
}

// Identity returns the fields a session is built from.
func (s *StaffRecord) Identity() StaffIdentity {
	return StaffIdentity{
		StaffID:    s.StaffID,
		FullName:   s.FullName,
		Department: s.Department,
	}
}

// StaffIdentity is the authenticated-identity result handed to the session issuer.
type StaffIdentity struct {
	StaffID    string `json:"staff_id"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
}
