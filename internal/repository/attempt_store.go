package repository

import (
	"context"
	"encoding/json"
	"english_center_backend/internal/model"
	"english_center_backend/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
)

// AttemptStore holds in-flight attempts. Attempts are ephemeral: they
// exist from registration until their result is persisted, then they
// are deleted (or simply expire when abandoned).
type AttemptStore interface {
	Save(ctx context.Context, attempt *model.Attempt) error
	Get(ctx context.Context, attemptID string) (*model.Attempt, error)
	Delete(ctx context.Context, attemptID string) error
}

// RedisAttemptStore keeps attempts as JSON values with a TTL so
// abandoned attempts clean themselves up.
type RedisAttemptStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisAttemptStore(rdb *redis.Client, ttl time.Duration) *RedisAttemptStore {
	return &RedisAttemptStore{rdb: rdb, ttl: ttl}
}

func attemptKey(id string) string {
	return "free_test:attempt:" + id
}

func (s *RedisAttemptStore) Save(ctx context.Context, attempt *model.Attempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, attemptKey(attempt.ID), data, s.ttl).Err()
}

func (s *RedisAttemptStore) Get(ctx context.Context, attemptID string) (*model.Attempt, error) {
	data, err := s.rdb.Get(ctx, attemptKey(attemptID)).Bytes()
	if err == redis.Nil {
		return nil, util.ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	var attempt model.Attempt
	if err := json.Unmarshal(data, &attempt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (s *RedisAttemptStore) Delete(ctx context.Context, attemptID string) error {
	return s.rdb.Del(ctx, attemptKey(attemptID)).Err()
}
