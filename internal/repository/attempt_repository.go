package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-auth/internal/domain"
)

// AttemptRepository persists failed-login counters and lockout expiry.
type AttemptRepository interface {
	Get(ctx context.Context, staffID string) (*domain.AttemptRecord, error)
	// Increment adds one failed attempt to the stored count, creating the
	// record when absent, and returns the new count.
	Increment(ctx context.Context, staffID string) (int, error)
	// Upsert stores attempts and lockoutUntil in one atomic write. Stored
	// values larger than the new ones are kept.
	Upsert(ctx context.Context, staffID string, attempts int, lockoutUntil time.Time) error
	Clear(ctx context.Context, staffID string) error
}

type attemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository builds the PostgreSQL attempt store.
func NewAttemptRepository(pool *pgxpool.Pool) AttemptRepository {
	return &attemptRepository{pool: pool}
}

func (r *attemptRepository) Get(ctx context.Context, staffID string) (*domain.AttemptRecord, error) {
	const query = `
        SELECT staff_id, attempts, lockout_until, updated_at
        FROM login_attempts WHERE staff_id=$1`

	var (
		rec          domain.AttemptRecord
		lockoutUntil *time.Time
	)
	if err := r.pool.QueryRow(ctx, query, staffID).Scan(
		&rec.StaffID,
		&rec.Attempts,
		&lockoutUntil,
		&rec.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("get attempts %s: %w", staffID, mapPgError(err))
	}
	if lockoutUntil != nil {
		rec.LockoutUntil = *lockoutUntil
	}
	return &rec, nil
}

func (r *attemptRepository) Increment(ctx context.Context, staffID string) (int, error) {
	const query = `
        INSERT INTO login_attempts (staff_id, attempts, updated_at)
        VALUES ($1,1,NOW())
        ON CONFLICT (staff_id) DO UPDATE
        SET attempts=login_attempts.attempts + 1,
            updated_at=NOW()
        RETURNING attempts`

	var attempts int
	if err := r.pool.QueryRow(ctx, query, staffID).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("increment attempts %s: %w", staffID, mapPgError(err))
	}
	return attempts, nil
}

// GREATEST skips NULLs, so a cleared lockout never overwrites a set one.
func (r *attemptRepository) Upsert(ctx context.Context, staffID string, attempts int, lockoutUntil time.Time) error {
	const query = `
        INSERT INTO login_attempts (staff_id, attempts, lockout_until, updated_at)
        VALUES ($1,$2,$3,NOW())
        ON CONFLICT (staff_id) DO UPDATE
        SET attempts=GREATEST(login_attempts.attempts, EXCLUDED.attempts),
            lockout_until=GREATEST(login_attempts.lockout_until, EXCLUDED.lockout_until),
            updated_at=NOW()`

	var until *time.Time
	if !lockoutUntil.IsZero() {
		until = &lockoutUntil
	}
	if _, err := r.pool.Exec(ctx, query, staffID, attempts, until); err != nil {
		return fmt.Errorf("upsert attempts %s: %w", staffID, mapPgError(err))
	}
	return nil
}

func (r *attemptRepository) Clear(ctx context.Context, staffID string) error {
	const query = `DELETE FROM login_attempts WHERE staff_id=$1`
	if _, err := r.pool.Exec(ctx, query, staffID); err != nil {
		return fmt.Errorf("clear attempts %s: %w", staffID, mapPgError(err))
	}
	return nil
}
