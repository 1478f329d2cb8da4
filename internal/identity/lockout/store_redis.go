package lockout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const attemptKeyPrefix = "mfa:attempts:"

// RedisStore is the production implementation for multi-instance deployments
// where lockout state must be shared.
type RedisStore struct {
	client *redis.Client
	window time.Duration
}

func NewRedisStore(client *redis.Client, window time.Duration) *RedisStore {
	return &RedisStore{client: client, window: window}
}

func (s *RedisStore) RecordFailure(ctx context.Context, token string) (int, error) {
	key := attemptKey(token)
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		// Window starts at the first failure and is not extended by later ones.
		if err := s.client.Expire(ctx, key, s.window).Err(); err != nil {
			return int(count), err
		}
	}
	return int(count), nil
}

func (s *RedisStore) Attempts(ctx context.Context, token string) (int, error) {
	count, err := s.client.Get(ctx, attemptKey(token)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *RedisStore) Reset(ctx context.Context, token string) error {
	return s.client.Del(ctx, attemptKey(token)).Err()
}

// attemptKey hashes the token so raw credential material never lands in Redis.
func attemptKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return attemptKeyPrefix + hex.EncodeToString(sum[:16])
}
