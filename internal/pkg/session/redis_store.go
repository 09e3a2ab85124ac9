// internal/pkg/session/redis_store.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps revocations and login counters in Redis so they are
// shared by every instance.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Revoke adds a token to the blacklist
func (s *RedisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// IsRevoked checks if a token is blacklisted
func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := s.client.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return exists > 0, nil
}

// CheckLoginAttempt checks if login attempt is allowed
func (s *RedisStore) CheckLoginAttempt(ctx context.Context, ip, email string) (bool, int64, error) {
	key := loginKey(ip, email)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	// Set expiration on first attempt
	if count == 1 {
		s.client.Expire(ctx, key, loginWindow)
	}

	remaining := maxLoginAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= maxLoginAttempts, remaining, nil
}

// ResetLoginAttempts resets the login attempt counter
func (s *RedisStore) ResetLoginAttempts(ctx context.Context, ip, email string) error {
	return s.client.Del(ctx, loginKey(ip, email)).Err()
}

func blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}

func loginKey(ip, email string) string {
	return fmt.Sprintf("ratelimit:login:%s:%s", ip, email)
}
