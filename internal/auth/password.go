package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Hasher hashes and verifies staff passwords.
type Hasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	// Verify reports whether plain matches hash. An empty or malformed hash
	// is a mismatch; the error is only set when ctx ends while waiting.
	Verify(ctx context.Context, plain, hash string) (bool, error)
}

// BcryptHasher runs bcrypt on at most workers goroutines at once.
type BcryptHasher struct {
	cost  int
	slots *semaphore.Weighted
}

// NewBcryptHasher builds a hasher. Out-of-range costs fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost, workers int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if workers <= 0 {
		workers = 1
	}
	return &BcryptHasher{cost: cost, slots: semaphore.NewWeighted(int64(workers))}
}

// Hash hashes a plaintext password with the configured cost.
func (h *BcryptHasher) Hash(ctx context.Context, plain string) (string, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.slots.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify compares a password against its hashed value.
func (h *BcryptHasher) Verify(ctx context.Context, plain, hash string) (bool, error) {
	if hash == "" {
		return false, nil
	}
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.slots.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil, nil
}
