package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/staff-auth/internal/domain"
)

// MemoryStaffRepository keeps staff records in process. It backs local runs
// without a database and the package tests.
type MemoryStaffRepository struct {
	mu    sync.RWMutex
	staff map[string]domain.StaffRecord
}

// NewMemoryStaffRepository seeds the repository with the given records.
func NewMemoryStaffRepository(seed ...domain.StaffRecord) *MemoryStaffRepository {
	r := &MemoryStaffRepository{staff: make(map[string]domain.StaffRecord, len(seed))}
	for _, s := range seed {
		r.Put(s)
	}
	return r
}

type staffSeed struct {
	StaffID      string `json:"staff_id"`
	FullName     string `json:"full_name"`
	Department   string `json:"department"`
	PasswordHash string `json:"password_hash"`
}

// LoadStaffSeed reads a JSON array of staff records. Entries without a
// password_hash set their password on first login.
func LoadStaffSeed(path string) ([]domain.StaffRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read staff seed: %w", err)
	}
	var seeds []staffSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return nil, fmt.Errorf("decode staff seed %s: %w", path, err)
	}

	records := make([]domain.StaffRecord, 0, len(seeds))
	for i, s := range seeds {
		id := strings.TrimSpace(s.StaffID)
		if id == "" || strings.TrimSpace(s.Department) == "" {
			return nil, fmt.Errorf("staff seed %s: entry %d needs staff_id and department", path, i)
		}
		records = append(records, domain.StaffRecord{
			StaffID:      id,
			FullName:     strings.TrimSpace(s.FullName),
			Department:   strings.TrimSpace(s.Department),
			PasswordHash: s.PasswordHash,
		})
	}
	return records, nil
}

// Put inserts or replaces a record.
func (r *MemoryStaffRepository) Put(staff domain.StaffRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = now
	}
	staff.UpdatedAt = now
	r.staff[staff.StaffID] = staff
}

func (r *MemoryStaffRepository) GetByStaffID(_ context.Context, staffID string) (*domain.StaffRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	staff, ok := r.staff[staffID]
	if !ok {
		return nil, ErrNotFound
	}
	return &staff, nil
}

func (r *MemoryStaffRepository) SetPasswordHash(_ context.Context, staffID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff, ok := r.staff[staffID]
	if !ok {
		return ErrNotFound
	}
	if staff.PasswordHash != "" {
		return ErrPasswordAlreadySet
	}
	staff.PasswordHash = hash
	staff.UpdatedAt = time.Now()
	r.staff[staffID] = staff
	return nil
}

// MemoryAttemptRepository is the in-process attempt store.
type MemoryAttemptRepository struct {
	mu       sync.Mutex
	attempts map[string]domain.AttemptRecord
}

// NewMemoryAttemptRepository returns an empty store.
func NewMemoryAttemptRepository() *MemoryAttemptRepository {
	return &MemoryAttemptRepository{attempts: make(map[string]domain.AttemptRecord)}
}

func (r *MemoryAttemptRepository) Get(_ context.Context, staffID string) (*domain.AttemptRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.attempts[staffID]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (r *MemoryAttemptRepository) Increment(_ context.Context, staffID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.attempts[staffID]
	rec.StaffID = staffID
	rec.Attempts++
	rec.UpdatedAt = time.Now()
	r.attempts[staffID] = rec
	return rec.Attempts, nil
}

func (r *MemoryAttemptRepository) Upsert(_ context.Context, staffID string, attempts int, lockoutUntil time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.attempts[staffID]
	rec.StaffID = staffID
	if attempts > rec.Attempts {
		rec.Attempts = attempts
	}
	if lockoutUntil.After(rec.LockoutUntil) {
		rec.LockoutUntil = lockoutUntil
	}
	rec.UpdatedAt = time.Now()
	r.attempts[staffID] = rec
	return nil
}

func (r *MemoryAttemptRepository) Clear(_ context.Context, staffID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, staffID)
	return nil
}

// MemoryDepartmentRepository serves a fixed department list.
type MemoryDepartmentRepository struct {
	departments []domain.Department
}

// NewMemoryDepartmentRepository marks every named department active.
func NewMemoryDepartmentRepository(names ...string) *MemoryDepartmentRepository {
	r := &MemoryDepartmentRepository{}
	for _, name := range names {
		r.departments = append(r.departments, domain.Department{Name: name, IsActive: true})
	}
	return r
}

func (r *MemoryDepartmentRepository) ListActive(_ context.Context) ([]domain.Department, error) {
	out := make([]domain.Department, 0, len(r.departments))
	for _, d := range r.departments {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *MemoryDepartmentRepository) IsActive(_ context.Context, name string) (bool, error) {
	for _, d := range r.departments {
		if d.IsActive && strings.EqualFold(d.Name, name) {
			return true, nil
		}
	}
	return false, nil
}
