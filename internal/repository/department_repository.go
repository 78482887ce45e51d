package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-auth/internal/domain"
)

// DepartmentRepository reads the departments staff may sign in to.
type DepartmentRepository interface {
	ListActive(ctx context.Context) ([]domain.Department, error)
	IsActive(ctx context.Context, name string) (bool, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) ListActive(ctx context.Context) ([]domain.Department, error) {
	const query = `
        SELECT id::text, name, description, is_active, created_at, updated_at
        FROM departments WHERE is_active = TRUE ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", mapPgError(err))
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.Description, &dept.IsActive, &dept.CreatedAt, &dept.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}

func (r *departmentRepository) IsActive(ctx context.Context, name string) (bool, error) {
	const query = `
        SELECT EXISTS(
            SELECT 1 FROM departments WHERE is_active = TRUE AND LOWER(name) = LOWER($1)
        )`
	var active bool
	if err := r.pool.QueryRow(ctx, query, name).Scan(&active); err != nil {
		return false, fmt.Errorf("check department %s: %w", name, mapPgError(err))
	}
	return active, nil
}
