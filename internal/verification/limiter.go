package verification

import (
	"context"
	"fmt"
	"math"
	"time"
)

const (
	// AttemptWindow is the sliding window during which attempts accumulate.
	AttemptWindow = 15 * time.Minute
	// BlockDuration is how long an identity stays denied once blocked.
	BlockDuration = 30 * time.Minute
	// MaxAttempts is the counter value that triggers the block: five
	// attempts pass, the sixth blocks.
	MaxAttempts = 6

	attemptKeyPrefix = "verify:"
	blockedKeyPrefix = "blocked:"
)

type CheckResult struct {
	Allowed           bool
	RemainingAttempts int
	Message           string
}

// RateLimitError is returned by workflows when an identity is denied.
// The message already carries the human-readable wait time.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// Limiter decides whether an identity may attempt a verification action
// right now, and records outcomes. It owns no state of its own: the
// attempt counter and block flag live in the shared store, so concurrent
// instances agree.
type Limiter struct {
	store AttemptStore
}

func NewLimiter(store AttemptStore) *Limiter {
	return &Limiter{
		store: store,
	}
}

// CheckAttempts checks the block flag and then increments the attempt
// counter. Note that it counts on every invocation, including calls that
// lead to a successful verification: a workflow entry always consumes one
// attempt slot. Callers must invoke it exactly once per workflow entry.
//
// The block-then-increment sequence has a benign race: under heavy
// concurrent contention for one identity at most one extra attempt slips
// past the threshold, which is acceptable for this threat model.
func (l *Limiter) CheckAttempts(ctx context.Context, identity string) (CheckResult, error) {
	blockedKey := blockedKeyPrefix + identity

	blocked, err := l.store.Exists(ctx, blockedKey)
	if err != nil {
		return CheckResult{}, fmt.Errorf("check block flag failed: %w", err)
	}
	if blocked {
		ttl, err := l.store.RemainingTTL(ctx, blockedKey)
		if err != nil {
			return CheckResult{}, fmt.Errorf("block flag ttl failed: %w", err)
		}
		return CheckResult{
			Allowed:           false,
			RemainingAttempts: 0,
			Message:           waitMessage(ttl),
		}, nil
	}

	attemptKey := attemptKeyPrefix + identity

	attempts, err := l.store.Increment(ctx, attemptKey)
	if err != nil {
		return CheckResult{}, fmt.Errorf("increment attempts failed: %w", err)
	}

	if attempts == 1 {
		if err := l.store.SetExpiry(ctx, attemptKey, AttemptWindow); err != nil {
			return CheckResult{}, fmt.Errorf("set attempt window failed: %w", err)
		}
	}

	if attempts >= MaxAttempts {
		if err := l.store.SetWithExpiry(ctx, blockedKey, "1", BlockDuration); err != nil {
			return CheckResult{}, fmt.Errorf("set block flag failed: %w", err)
		}
		return CheckResult{
			Allowed:           false,
			RemainingAttempts: 0,
			Message:           "too many attempts, your account is blocked for 30 minutes",
		}, nil
	}

	return CheckResult{
		Allowed:           true,
		RemainingAttempts: MaxAttempts - 1 - int(attempts),
	}, nil
}

// RecordFailedAttempt increments the counter without the blocking check.
// Combined with the increment CheckAttempts already did, one failed
// verification consumes two attempt slots. Kept as-is on purpose.
func (l *Limiter) RecordFailedAttempt(ctx context.Context, identity string) error {
	if _, err := l.store.Increment(ctx, attemptKeyPrefix+identity); err != nil {
		return fmt.Errorf("record failed attempt: %w", err)
	}
	return nil
}

// ResetAttempts deletes the attempt counter. It deliberately leaves the
// block flag alone: a blocked identity stays blocked until the flag's own
// TTL elapses, even after a successful verification.
func (l *Limiter) ResetAttempts(ctx context.Context, identity string) error {
	if err := l.store.Delete(ctx, attemptKeyPrefix+identity); err != nil {
		return fmt.Errorf("reset attempts failed: %w", err)
	}
	return nil
}

func waitMessage(ttl time.Duration) string {
	minutes := int(math.Ceil(ttl.Seconds() / 60))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("too many attempts, try again in %d minute(s)", minutes)
}
