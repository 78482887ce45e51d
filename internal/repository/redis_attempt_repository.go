package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/staff-auth/internal/domain"
)

// upsertAttemptsScript keeps attempts and lockout_until monotonic inside one
// server-side step.
var upsertAttemptsScript = redis.NewScript(`
local attempts = tonumber(ARGV[1])
local stored = tonumber(redis.call('HGET', KEYS[1], 'attempts') or '0')
if stored > attempts then
  attempts = stored
end
local current = tonumber(redis.call('HGET', KEYS[1], 'lockout_until') or '0')
local next = tonumber(ARGV[2])
if current > next then
  next = current
end
redis.call('HSET', KEYS[1], 'attempts', attempts, 'lockout_until', next, 'updated_at', ARGV[3])
return next
`)

type redisAttemptRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisAttemptRepository stores attempt records as one hash per staff member.
func NewRedisAttemptRepository(client *redis.Client, keyPrefix string) AttemptRepository {
	return &redisAttemptRepository{client: client, prefix: keyPrefix}
}

func (r *redisAttemptRepository) key(staffID string) string {
	return r.prefix + staffID
}

func (r *redisAttemptRepository) Get(ctx context.Context, staffID string) (*domain.AttemptRecord, error) {
	if r.client == nil {
		return nil, ErrStoreUnavailable
	}
	fields, err := r.client.HGetAll(ctx, r.key(staffID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get attempts %s: %w", staffID, errors.Join(ErrStoreUnavailable, err))
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	rec := &domain.AttemptRecord{StaffID: staffID}
	if rec.Attempts, err = strconv.Atoi(fields["attempts"]); err != nil {
		return nil, fmt.Errorf("decode attempts %s: %w", staffID, err)
	}
	rec.LockoutUntil = unixMilli(fields["lockout_until"])
	rec.UpdatedAt = unixMilli(fields["updated_at"])
	return rec, nil
}

func (r *redisAttemptRepository) Increment(ctx context.Context, staffID string) (int, error) {
	if r.client == nil {
		return 0, ErrStoreUnavailable
	}
	key := r.key(staffID)
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.HIncrBy(ctx, key, "attempts", 1)
		pipe.HSet(ctx, key, "updated_at", time.Now().UnixMilli())
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("increment attempts %s: %w", staffID, errors.Join(ErrStoreUnavailable, err))
	}
	return int(incr.Val()), nil
}

func (r *redisAttemptRepository) Upsert(ctx context.Context, staffID string, attempts int, lockoutUntil time.Time) error {
	if r.client == nil {
		return ErrStoreUnavailable
	}
	var until int64
	if !lockoutUntil.IsZero() {
		until = lockoutUntil.UnixMilli()
	}
	err := upsertAttemptsScript.Run(ctx, r.client, []string{r.key(staffID)},
		attempts, until, time.Now().UnixMilli()).Err()
	if err != nil {
		return fmt.Errorf("upsert attempts %s: %w", staffID, errors.Join(ErrStoreUnavailable, err))
	}
	return nil
}

func (r *redisAttemptRepository) Clear(ctx context.Context, staffID string) error {
	if r.client == nil {
		return ErrStoreUnavailable
	}
	if err := r.client.Del(ctx, r.key(staffID)).Err(); err != nil {
		return fmt.Errorf("clear attempts %s: %w", staffID, errors.Join(ErrStoreUnavailable, err))
	}
	return nil
}

func unixMilli(raw string) time.Time {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
