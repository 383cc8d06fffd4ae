package verification

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewLimiter(NewRedisAttemptStore(client)), mr
}

func TestLimiter_AllowsFirstAttempts(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		res, err := limiter.CheckAttempts(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "attempt %d should be allowed", i)
		assert.Equal(t, 5-i, res.RemainingAttempts)
	}
}

func TestLimiter_SixthAttemptBlocks(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := limiter.CheckAttempts(ctx, "alice@example.com")
		require.NoError(t, err)
	}

	res, err := limiter.CheckAttempts(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.RemainingAttempts)
	assert.Contains(t, res.Message, "blocked for 30 minutes")

	require.True(t, mr.Exists("blocked:alice@example.com"))
	assert.Equal(t, BlockDuration, mr.TTL("blocked:alice@example.com"))
}

func TestLimiter_BlockedIdentityDeniedWithWaitMessage(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("blocked:alice@example.com", "1"))
	mr.SetTTL("blocked:alice@example.com", 2*time.Minute+30*time.Second)

	res, err := limiter.CheckAttempts(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.RemainingAttempts)
	assert.Contains(t, res.Message, "3 minute(s)")

	// A blocked check must not touch the counter.
	assert.False(t, mr.Exists("verify:alice@example.com"))
}

func TestLimiter_FirstIncrementSetsWindow(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	_, err := limiter.CheckAttempts(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, AttemptWindow, mr.TTL("verify:alice@example.com"))

	// Later increments must not refresh the window.
	mr.SetTTL("verify:alice@example.com", 5*time.Minute)
	_, err = limiter.CheckAttempts(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, mr.TTL("verify:alice@example.com"))
}

func TestLimiter_WindowExpiryResetsCounter(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := limiter.CheckAttempts(ctx, "alice@example.com")
		require.NoError(t, err)
	}

	mr.FastForward(AttemptWindow + time.Second)

	res, err := limiter.CheckAttempts(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 4, res.RemainingAttempts)
}

func TestLimiter_RecordFailedAttemptDoubleCounts(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	// One workflow entry plus one recorded failure consumes two slots.
	_, err := limiter.CheckAttempts(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NoError(t, limiter.RecordFailedAttempt(ctx, "alice@example.com"))

	got, err := mr.Get("verify:alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "2", got)

	// So three failed verifications block the identity: 3*2 >= 6.
	for i := 0; i < 2; i++ {
		_, err := limiter.CheckAttempts(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NoError(t, limiter.RecordFailedAttempt(ctx, "alice@example.com"))
	}

	res, err := limiter.CheckAttempts(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
}

func TestLimiter_ResetAttemptsKeepsBlockFlag(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := limiter.CheckAttempts(ctx, "alice@example.com")
		require.NoError(t, err)
	}
	require.True(t, mr.Exists("blocked:alice@example.com"))

	require.NoError(t, limiter.ResetAttempts(ctx, "alice@example.com"))

	assert.False(t, mr.Exists("verify:alice@example.com"))
	// Lockout persists until its own TTL elapses.
	assert.True(t, mr.Exists("blocked:alice@example.com"))

	res, err := limiter.CheckAttempts(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	mr.FastForward(BlockDuration + time.Second)

	res, err = limiter.CheckAttempts(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestLimiter_StoreDownFailsClosed(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()

	mr.Close()

	res, err := limiter.CheckAttempts(ctx, "alice@example.com")
	require.Error(t, err)
	assert.False(t, res.Allowed)
}

func TestLimiter_IdentitiesAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := limiter.CheckAttempts(ctx, "alice@example.com")
		require.NoError(t, err)
	}

	res, err := limiter.CheckAttempts(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 4, res.RemainingAttempts)
}
