package service

import (
	"context"
	"strings"

	"github.com/spec-kit/staff-auth/internal/config"
	"github.com/spec-kit/staff-auth/internal/repository"
)

// DepartmentDirectory answers which departments staff may sign in to.
type DepartmentDirectory interface {
	IsAuthorized(ctx context.Context, department string) (bool, error)
	List(ctx context.Context) ([]string, error)
}

// StaticDepartments is a fixed, case-insensitive allow-list.
type StaticDepartments struct {
	names []string
	set   map[string]struct{}
}

// NewStaticDepartments builds the allow-list from names.
func NewStaticDepartments(names ...string) *StaticDepartments {
	d := &StaticDepartments{set: make(map[string]struct{}, len(names))}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := d.set[key]; dup {
			continue
		}
		d.set[key] = struct{}{}
		d.names = append(d.names, strings.TrimSpace(name))
	}
	return d
}

func (d *StaticDepartments) IsAuthorized(_ context.Context, department string) (bool, error) {
	_, ok := d.set[strings.ToLower(strings.TrimSpace(department))]
	return ok, nil
}

func (d *StaticDepartments) List(_ context.Context) ([]string, error) {
	return append([]string(nil), d.names...), nil
}

type repositoryDepartments struct {
	repo repository.DepartmentRepository
}

// NewRepositoryDepartments serves the active rows of the departments table.
func NewRepositoryDepartments(repo repository.DepartmentRepository) DepartmentDirectory {
	return &repositoryDepartments{repo: repo}
}

func (d *repositoryDepartments) IsAuthorized(ctx context.Context, department string) (bool, error) {
	return d.repo.IsActive(ctx, strings.TrimSpace(department))
}

func (d *repositoryDepartments) List(ctx context.Context) ([]string, error) {
	depts, err := d.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(depts))
	for _, dept := range depts {
		names = append(names, dept.Name)
	}
	return names, nil
}

// NewDepartmentDirectory picks the configured source.
func NewDepartmentDirectory(cfg config.AuthConfig, repo repository.DepartmentRepository) DepartmentDirectory {
	if cfg.DepartmentSource == config.DepartmentSourceDatabase && repo != nil {
		return NewRepositoryDepartments(repo)
	}
	return NewStaticDepartments(cfg.AllowedDepartments...)
}
