package auth

import (
	"time"

	"github.com/spec-kit/staff-auth/internal/config"
)

// LockoutPolicy maps a consecutive failure count to a lockout duration.
// Duration must be deterministic and never decrease as attempts grow.
type LockoutPolicy interface {
	Threshold() int
	Duration(attempts int) time.Duration
}

// LinearPolicy locks for base at the threshold and adds step per further failure.
type LinearPolicy struct {
	threshold int
	base      time.Duration
	step      time.Duration
}

// NewLinearPolicy builds a LinearPolicy; threshold is clamped to at least 1.
func NewLinearPolicy(threshold int, base, step time.Duration) LinearPolicy {
	if threshold < 1 {
		threshold = 1
	}
	return LinearPolicy{threshold: threshold, base: base, step: step}
}

// DefaultLockoutPolicy locks for 5 minutes after 3 failures, plus 5 minutes per extra failure.
func DefaultLockoutPolicy() LinearPolicy {
	return NewLinearPolicy(3, 5*time.Minute, 5*time.Minute)
}

func (p LinearPolicy) Threshold() int { return p.threshold }

func (p LinearPolicy) Duration(attempts int) time.Duration {
	if attempts < p.threshold {
		return 0
	}
	return p.base + time.Duration(attempts-p.threshold)*p.step
}

// FixedPolicy locks for the same duration at and above the threshold.
type FixedPolicy struct {
	threshold int
	duration  time.Duration
}

// NewFixedPolicy builds a FixedPolicy; threshold is clamped to at least 1.
func NewFixedPolicy(threshold int, duration time.Duration) FixedPolicy {
	if threshold < 1 {
		threshold = 1
	}
	return FixedPolicy{threshold: threshold, duration: duration}
}

func (p FixedPolicy) Threshold() int { return p.threshold }

func (p FixedPolicy) Duration(attempts int) time.Duration {
	if attempts < p.threshold {
		return 0
	}
	return p.duration
}

// NewLockoutPolicy selects the configured strategy.
func NewLockoutPolicy(cfg config.LockoutConfig) LockoutPolicy {
	base := time.Duration(cfg.BaseSeconds) * time.Second
	if cfg.Strategy == config.LockoutStrategyFixed {
		return NewFixedPolicy(cfg.Threshold, base)
	}
	return NewLinearPolicy(cfg.Threshold, base, time.Duration(cfg.StepSeconds)*time.Second)
}
