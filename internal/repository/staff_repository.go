package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-auth/internal/domain"
)

// StaffRepository reads the staff register and records first-use passwords.
type StaffRepository interface {
	GetByStaffID(ctx context.Context, staffID string) (*domain.StaffRecord, error)
	SetPasswordHash(ctx context.Context, staffID, hash string) error
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

func (r *staffRepository) GetByStaffID(ctx context.Context, staffID string) (*domain.StaffRecord, error) {
	const query = `
        SELECT staff_id, full_name, department, COALESCE(password_hash, ''), created_at, updated_at
        FROM staff WHERE staff_id=$1`

	var staff domain.StaffRecord
	if err := r.pool.QueryRow(ctx, query, staffID).Scan(
		&staff.StaffID,
		&staff.FullName,
		&staff.Department,
		&staff.PasswordHash,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("get staff %s: %w", staffID, mapPgError(err))
	}
	return &staff, nil
}

// SetPasswordHash only writes when no hash is stored yet.
func (r *staffRepository) SetPasswordHash(ctx context.Context, staffID, hash string) error {
	const update = `
        UPDATE staff SET password_hash=$1, updated_at=NOW()
        WHERE staff_id=$2 AND (password_hash IS NULL OR password_hash = '')`

	cmd, err := r.pool.Exec(ctx, update, hash, staffID)
	if err != nil {
		return fmt.Errorf("set password hash %s: %w", staffID, mapPgError(err))
	}
	if cmd.RowsAffected() == 1 {
		return nil
	}

	const exists = `SELECT EXISTS(SELECT 1 FROM staff WHERE staff_id=$1)`
	var found bool
	if err := r.pool.QueryRow(ctx, exists, staffID).Scan(&found); err != nil {
		return fmt.Errorf("set password hash %s: %w", staffID, mapPgError(err))
	}
	if !found {
		return ErrNotFound
	}
	return ErrPasswordAlreadySet
}
