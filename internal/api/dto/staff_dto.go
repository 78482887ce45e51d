package dto

import (
	"time"

	"github.com/spec-kit/staff-auth/internal/domain"
)

// StaffLoginRequest payload.
type StaffLoginRequest struct {
	StaffID    string `json:"staff_id"`
	Department string `json:"department"`
	Password   string `json:"password"`
}

// StaffResponse is the public view of a staff member.
type StaffResponse struct {
	StaffID    string `json:"staff_id"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
}

// AuthResponse carries the issued session token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginSuccessResponse is returned with 200 on a successful login.
type LoginSuccessResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Staff   StaffResponse `json:"staff"`
	Auth    AuthResponse  `json:"auth"`
}

// LoginFailureResponse is returned for every rejected login.
type LoginFailureResponse struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message"`
	Lockout           bool     `json:"lockout,omitempty"`
	RetryAfterSeconds int      `json:"retry_after_seconds,omitempty"`
	MissingFields     []string `json:"missing_fields,omitempty"`
}

// DepartmentsResponse lists departments offered on the login form.
type DepartmentsResponse struct {
	Departments []string `json:"departments"`
}

// NewStaffResponse maps an identity to its wire form.
func NewStaffResponse(staff domain.StaffIdentity) StaffResponse {
	return StaffResponse{
		StaffID:    staff.StaffID,
		FullName:   staff.FullName,
		Department: staff.Department,
	}
}
