package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/thermotrap/identity-service/internal/domain"
)

const resetKeyPrefix = "identity:reset:"

// RedisResetStateStore keeps reset states as JSON values keyed by principal id.
// Keys outlive the OTP by the retention window so an expired code still reports OTPExpired.
type RedisResetStateStore struct {
	client    *redis.Client
	retention time.Duration
	nowFn     func() time.Time
}

func NewRedisResetStateStore(client *redis.Client, retention time.Duration) *RedisResetStateStore {
	if retention < 0 {
		retention = 0
	}
	return &RedisResetStateStore{
		client:    client,
		retention: retention,
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}

func resetKey(principalID uuid.UUID) string {
	return resetKeyPrefix + principalID.String()
}

func (s *RedisResetStateStore) Get(ctx context.Context, principalID uuid.UUID) (*domain.ResetState, error) {
	raw, err := s.client.Get(ctx, resetKey(principalID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var out domain.ResetState
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upsert overwrites the previous state; SET is last-writer-wins.
func (s *RedisResetStateStore) Upsert(ctx context.Context, state domain.ResetState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	ttl := state.ExpiresAt.Sub(s.nowFn()) + s.retention
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.client.Set(ctx, resetKey(state.PrincipalID), raw, ttl).Err()
}

func (s *RedisResetStateStore) Delete(ctx context.Context, principalID uuid.UUID) error {
	return s.client.Del(ctx, resetKey(principalID)).Err()
}

// DeleteExpired is a no-op sweep: key TTLs already evict states after the retention window.
func (s *RedisResetStateStore) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
