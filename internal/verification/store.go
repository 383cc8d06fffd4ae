package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptStore is the counter/TTL store backing the rate limiter.
// All operations are atomic at the key level. An unreachable store is a
// dependency failure: callers must fail closed, never allow the attempt.
type AttemptStore interface {
	Increment(ctx context.Context, key string) (int64, error)
	SetExpiry(ctx context.Context, key string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	RemainingTTL(ctx context.Context, key string) (time.Duration, error)
	SetWithExpiry(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type redisAttemptStore struct {
	client redis.UniversalClient
}

func NewRedisAttemptStore(client redis.UniversalClient) *redisAttemptStore {
	return &redisAttemptStore{
		client: client,
	}
}

func (s *redisAttemptStore) Increment(ctx context.Context, key string) (int64, error) {
	value, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %q failed: %w", key, err)
	}
	return value, nil
}

func (s *redisAttemptStore) SetExpiry(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("redis expire %q failed: %w", key, err)
	}
	return nil
}

func (s *redisAttemptStore) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %q failed: %w", key, err)
	}
	return count > 0, nil
}

func (s *redisAttemptStore) RemainingTTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ttl %q failed: %w", key, err)
	}
	return ttl, nil
}

func (s *redisAttemptStore) SetWithExpiry(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := s.client.SetEx(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis setex %q failed: %w", key, err)
	}
	return nil
}

func (s *redisAttemptStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %q failed: %w", key, err)
	}
	return nil
}
