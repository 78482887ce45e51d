package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-auth/internal/auth"
	"github.com/spec-kit/staff-auth/internal/config"
	"github.com/spec-kit/staff-auth/internal/domain"
	"github.com/spec-kit/staff-auth/internal/events"
	"github.com/spec-kit/staff-auth/internal/observability"
	"github.com/spec-kit/staff-auth/internal/repository"
)

// dummyPassword is hashed once so unknown staff IDs cost one bcrypt compare too.
const dummyPassword = "Dummy-Passw0rd!"

// Authenticator verifies staff logins and maintains lockout state.
type Authenticator struct {
	staff       repository.StaffRepository
	attempts    repository.AttemptRepository
	departments DepartmentDirectory
	hasher      auth.Hasher
	lockout     auth.LockoutPolicy
	passwords   auth.PasswordPolicy
	locks       *auth.KeyedMutex
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// AuthDependencies encapsulates collaborators for the authenticator. Hasher,
// Lockout and Clock default from configuration when nil.
type AuthDependencies struct {
	StaffRepo   repository.StaffRepository
	AttemptRepo repository.AttemptRepository
	Departments DepartmentDirectory
	Hasher      auth.Hasher
	Lockout     auth.LockoutPolicy
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	Clock       func() time.Time
}

// NewAuthenticator builds the service.
func NewAuthenticator(cfg config.Config, deps AuthDependencies) *Authenticator {
	a := &Authenticator{
		staff:       deps.StaffRepo,
		attempts:    deps.AttemptRepo,
		departments: deps.Departments,
		hasher:      deps.Hasher,
		lockout:     deps.Lockout,
		passwords: auth.PasswordPolicy{
			MinLength:           cfg.Auth.PasswordMinLength,
			MaxLength:           cfg.Auth.PasswordMaxLength,
			RequireMixedClasses: cfg.Auth.PasswordRequireMixed,
		},
		locks:      auth.NewKeyedMutex(),
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if a.hasher == nil {
		a.hasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.HashWorkers)
	}
	if a.lockout == nil {
		a.lockout = auth.NewLockoutPolicy(cfg.Lockout)
	}
	if a.departments == nil {
		a.departments = NewStaticDepartments(cfg.Auth.AllowedDepartments...)
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// Departments exposes the allow-list for the login form.
func (a *Authenticator) Departments() DepartmentDirectory {
	return a.departments
}

// Login runs one login attempt. It never returns an error or panics; every
// outcome is described by the result.
func (a *Authenticator) Login(ctx context.Context, req LoginRequest) (result LoginResult) {
	req = req.normalized()
	if missing := req.MissingFields(); len(missing) > 0 {
		a.metrics.RecordLogin(string(ReasonMissingFields))
		return LoginResult{Reason: ReasonMissingFields}
	}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("login panicked", zap.String("staff_id", req.StaffID), zap.Any("panic", r))
			result = a.systemError(req.StaffID, fmt.Errorf("panic: %v", r))
		}
		if result.Success {
			a.metrics.RecordLogin("success")
		} else {
			a.metrics.RecordLogin(string(result.Reason))
		}
	}()

	unlock := a.locks.Lock(req.StaffID)
	defer unlock()

	now := a.now()
	record := a.loadAttempts(ctx, req.StaffID)
	if record.LockedAt(now) {
		a.logger.Info("login rejected while locked",
			zap.String("staff_id", req.StaffID),
			zap.Int("attempts", record.Attempts),
			zap.Time("lockout_until", record.LockoutUntil))
		a.publish(ctx, events.NewEvent(events.EventLoginRejectedLocked, req.StaffID, now, events.LockoutPayload{
			Attempts:     record.Attempts,
			LockoutUntil: record.LockoutUntil,
		}))
		return LoginResult{
			Reason:     ReasonLockedOut,
			Attempts:   record.Attempts,
			Lockout:    true,
			RetryAfter: record.RetryAfter(now),
		}
	}

	staff, err := a.staff.GetByStaffID(ctx, req.StaffID)
	if errors.Is(err, repository.ErrNotFound) {
		a.burnVerify(ctx, req.Password)
		return a.fail(ctx, req.StaffID, record, ReasonInvalidStaffID, now)
	}
	if err != nil {
		return a.systemError(req.StaffID, err)
	}

	if !strings.EqualFold(staff.Department, req.Department) {
		return a.fail(ctx, req.StaffID, record, ReasonDepartmentMismatch, now)
	}
	authorized, err := a.departments.IsAuthorized(ctx, staff.Department)
	if err != nil {
		return a.systemError(req.StaffID, err)
	}
	if !authorized {
		return a.fail(ctx, req.StaffID, record, ReasonDepartmentNotAuthorized, now)
	}

	bootstrap := !staff.HasPassword()
	if bootstrap {
		if err := a.passwords.Validate(req.Password); err != nil {
			a.logger.Info("first-use password rejected", zap.String("staff_id", req.StaffID), zap.Error(err))
			return LoginResult{Reason: ReasonWeakPassword, Detail: err.Error()}
		}
		bootstrap, err = a.bootstrapPassword(ctx, staff, req.Password)
		if err != nil {
			return a.systemError(req.StaffID, err)
		}
	}
	if !bootstrap {
		ok, err := a.hasher.Verify(ctx, req.Password, staff.PasswordHash)
		if err != nil {
			return a.systemError(req.StaffID, err)
		}
		if !ok {
			return a.fail(ctx, req.StaffID, record, ReasonInvalidPassword, now)
		}
	}

	if err := a.attempts.Clear(ctx, req.StaffID); err != nil {
		a.logger.Warn("failed to clear login attempts", zap.String("staff_id", req.StaffID), zap.Error(err))
	}

	identity := staff.Identity()
	a.logger.Info("staff login succeeded",
		zap.String("staff_id", identity.StaffID),
		zap.String("department", identity.Department),
		zap.Bool("bootstrap", bootstrap))
	if bootstrap {
		a.publish(ctx, events.NewEvent(events.EventPasswordBootstrap, identity.StaffID, now, nil))
	}
	a.publish(ctx, events.NewEvent(events.EventLoginSucceeded, identity.StaffID, now, events.LoginSucceededPayload{
		Department: identity.Department,
		Bootstrap:  bootstrap,
	}))
	return LoginResult{Success: true, Staff: &identity, Bootstrap: bootstrap}
}

// bootstrapPassword stores the first password. It reports false when another
// login set a hash first; staff then carries that hash for a normal verify.
func (a *Authenticator) bootstrapPassword(ctx context.Context, staff *domain.StaffRecord, password string) (bool, error) {
	hash, err := a.hasher.Hash(ctx, password)
	if err != nil {
		return false, fmt.Errorf("hash first-use password: %w", err)
	}
	err = a.staff.SetPasswordHash(ctx, staff.StaffID, hash)
	if err == nil {
		staff.PasswordHash = hash
		return true, nil
	}
	if !errors.Is(err, repository.ErrPasswordAlreadySet) {
		return false, fmt.Errorf("store first-use password: %w", err)
	}

	fresh, err := a.staff.GetByStaffID(ctx, staff.StaffID)
	if err != nil {
		return false, fmt.Errorf("reload staff after concurrent bootstrap: %w", err)
	}
	*staff = *fresh
	return false, nil
}

// loadAttempts returns nil when there is no record or the store is unusable.
func (a *Authenticator) loadAttempts(ctx context.Context, staffID string) *domain.AttemptRecord {
	record, err := a.attempts.Get(ctx, staffID)
	if err == nil {
		return record
	}
	if !errors.Is(err, repository.ErrNotFound) {
		a.logger.Warn("attempt store read failed; continuing without lockout state",
			zap.String("staff_id", staffID), zap.Error(err))
	}
	return nil
}

// fail counts a failed attempt and locks the staff member once the policy says so.
func (a *Authenticator) fail(ctx context.Context, staffID string, record *domain.AttemptRecord, reason FailureReason, now time.Time) LoginResult {
	attempts, err := a.attempts.Increment(ctx, staffID)
	counted := err == nil
	if !counted {
		a.logger.Warn("failed to record login attempt", zap.String("staff_id", staffID), zap.Error(err))
		attempts = 1
		if record != nil {
			attempts = record.Attempts + 1
		}
	}

	var lockoutUntil time.Time
	if attempts >= a.lockout.Threshold() {
		if d := a.lockout.Duration(attempts); d > 0 {
			lockoutUntil = now.Add(d)
		}
	}

	// Upsert never lowers stored values, so the local estimate is safe to write.
	if !counted || !lockoutUntil.IsZero() {
		if err := a.attempts.Upsert(ctx, staffID, attempts, lockoutUntil); err != nil {
			a.logger.Warn("failed to store lockout", zap.String("staff_id", staffID), zap.Error(err))
		}
	}

	result := LoginResult{Reason: reason, Attempts: attempts}
	a.logger.Warn("staff login failed",
		zap.String("staff_id", staffID),
		zap.String("reason", string(reason)),
		zap.Int("attempts", attempts))
	a.publish(ctx, events.NewEvent(events.EventLoginFailed, staffID, now, events.LoginFailedPayload{
		Reason:   string(reason),
		Attempts: attempts,
	}))

	if !lockoutUntil.IsZero() {
		result.Lockout = true
		result.RetryAfter = lockoutUntil.Sub(now)
		a.publish(ctx, events.NewEvent(events.EventStaffLockedOut, staffID, now, events.LockoutPayload{
			Reason:       string(reason),
			Attempts:     attempts,
			LockoutUntil: lockoutUntil,
		}))
	}
	return result
}

func (a *Authenticator) systemError(staffID string, err error) LoginResult {
	a.logger.Error("staff login failed with system error", zap.String("staff_id", staffID), zap.Error(err))
	return LoginResult{Reason: ReasonSystemError, Err: err}
}

// burnVerify spends one compare so a missing staff ID is not faster than a wrong password.
func (a *Authenticator) burnVerify(ctx context.Context, password string) {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash(ctx, dummyPassword)
		if err != nil {
			a.logger.Debug("dummy hash unavailable", zap.Error(err))
			return
		}
		a.dummyHash = hash
	})
	if a.dummyHash != "" {
		_, _ = a.hasher.Verify(ctx, password, a.dummyHash)
	}
}

func (a *Authenticator) publish(ctx context.Context, event events.Event) {
	if a.dispatcher == nil {
		return
	}
	if err := a.dispatcher.Publish(ctx, event); err != nil {
		a.logger.Debug("login event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
