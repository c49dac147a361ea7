package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore records issued refresh-token sessions in Redis.
// Key format: session:<user_id>:<jti>
//
// A refresh token is valid only while its session key exists, so revoking all
// of a user's sessions is a key-prefix delete and expiry is handled by TTL.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Put records a refresh session that expires after ttl.
func (s *SessionStore) Put(ctx context.Context, userID, jti string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(userID, jti), "1", ttl).Err()
}

// Valid reports whether the session is still live.
func (s *SessionStore) Valid(ctx context.Context, userID, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(userID, jti)).Result()
	if err != nil {
		return false, fmt.Errorf("session check: %w", err)
	}
	return n > 0, nil
}

// Revoke drops a single session.
func (s *SessionStore) Revoke(ctx context.Context, userID, jti string) error {
	return s.client.Del(ctx, s.key(userID, jti)).Err()
}

func (s *SessionStore) key(userID, jti string) string {
	return fmt.Sprintf("session:%s:%s", userID, jti)
}
