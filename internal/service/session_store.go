package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore tracks revoked session tokens. Logout writes the token's jti
// here with a TTL matching the token's remaining lifetime; validation rejects
// any token whose jti is present.
type SessionStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "session:revoked:"

// RedisSessionStore is the production SessionStore backed by redis
type RedisSessionStore struct {
	rdb *redis.Client
}

// NewRedisSessionStore creates a new RedisSessionStore
func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

// Revoke marks a token id as revoked until its natural expiry
func (s *RedisSessionStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; nothing to track.
		return nil
	}
	return s.rdb.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether a token id has been revoked
func (s *RedisSessionStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemorySessionStore is an in-process SessionStore for tests and local runs
// without redis. Entries are dropped lazily once their TTL passes.
type MemorySessionStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewMemorySessionStore creates a new MemorySessionStore
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{revoked: make(map[string]time.Time)}
}

// Revoke marks a token id as revoked until its natural expiry
func (s *MemorySessionStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked reports whether a token id has been revoked
func (s *MemorySessionStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(deadline) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}
