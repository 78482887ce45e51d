package service

import (
	"math"
	"strings"
	"time"

	"github.com/spec-kit/staff-auth/internal/domain"
)

// FailureReason is the internal cause of a rejected login.
type FailureReason string

const (
	ReasonNone                    FailureReason = ""
	ReasonMissingFields           FailureReason = "missing_fields"
	ReasonWeakPassword            FailureReason = "weak_password"
	ReasonInvalidStaffID          FailureReason = "invalid_staff_id"
	ReasonDepartmentMismatch      FailureReason = "department_mismatch"
	ReasonDepartmentNotAuthorized FailureReason = "department_not_authorized"
	ReasonInvalidPassword         FailureReason = "invalid_password"
	ReasonLockedOut               FailureReason = "locked_out"
	ReasonSystemError             FailureReason = "system_error"
)

// ErrorKind groups failure reasons by how a caller must react.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindClientInput
	KindAuthFailure
	KindAuthorizationDenied
	KindLockout
	KindSystemError
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindClientInput:
		return "client_input"
	case KindAuthFailure:
		return "auth_failure"
	case KindAuthorizationDenied:
		return "authorization_denied"
	case KindLockout:
		return "lockout"
	case KindSystemError:
		return "system_error"
	default:
		return "unknown"
	}
}

// Public messages. Every AuthFailure reason shares one message so callers
// cannot tell an unknown staff ID from a wrong password.
const (
	MessageSuccess            = "login successful"
	MessageMissingFields      = "all fields are required"
	MessageInvalidCredentials = "invalid credentials"
	MessageNotAuthorized      = "department not authorized"
	MessageLockedOut          = "too many failed attempts, try again later"
	MessageSystemError        = "server error, please try again later"
)

// LoginRequest carries the three login fields.
type LoginRequest struct {
	StaffID    string
	Department string
	Password   string
}

func (r LoginRequest) normalized() LoginRequest {
	return LoginRequest{
		StaffID:    strings.TrimSpace(r.StaffID),
		Department: strings.TrimSpace(r.Department),
		Password:   strings.TrimSpace(r.Password),
	}
}

// MissingFields lists the wire names of empty fields after trimming.
func (r LoginRequest) MissingFields() []string {
	n := r.normalized()
	var missing []string
	if n.StaffID == "" {
		missing = append(missing, "staff_id")
	}
	if n.Department == "" {
		missing = append(missing, "department")
	}
	if n.Password == "" {
		missing = append(missing, "password")
	}
	return missing
}

// LoginResult is the outcome of one login call. Exactly one of Success or a
// non-empty Reason is set.
type LoginResult struct {
	Success   bool
	Staff     *domain.StaffIdentity
	Bootstrap bool

	Reason FailureReason
	// Detail explains client input errors such as a weak first-use password.
	Detail     string
	Attempts   int
	Lockout    bool
	RetryAfter time.Duration
	// Err holds the cause of a system error. Never shown to clients.
	Err error
}

// Kind classifies the result.
func (r LoginResult) Kind() ErrorKind {
	if r.Success {
		return KindNone
	}
	if r.Lockout {
		return KindLockout
	}
	switch r.Reason {
	case ReasonMissingFields, ReasonWeakPassword:
		return KindClientInput
	case ReasonInvalidStaffID, ReasonDepartmentMismatch, ReasonInvalidPassword:
		return KindAuthFailure
	case ReasonDepartmentNotAuthorized:
		return KindAuthorizationDenied
	case ReasonLockedOut:
		return KindLockout
	default:
		return KindSystemError
	}
}

// PublicMessage is the text safe to show to the caller.
func (r LoginResult) PublicMessage() string {
	switch r.Kind() {
	case KindNone:
		return MessageSuccess
	case KindClientInput:
		if r.Detail != "" {
			return r.Detail
		}
		return MessageMissingFields
	case KindAuthFailure:
		return MessageInvalidCredentials
	case KindAuthorizationDenied:
		return MessageNotAuthorized
	case KindLockout:
		return MessageLockedOut
	default:
		return MessageSystemError
	}
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds.
func (r LoginResult) RetryAfterSeconds() int {
	if r.RetryAfter <= 0 {
		return 0
	}
	return int(math.Ceil(r.RetryAfter.Seconds()))
}
