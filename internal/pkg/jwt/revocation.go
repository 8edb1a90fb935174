package jwt

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers revoked token hashes until their TTL runs out.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// hashToken hashes the input string using SHA256 and encodes the result in base64.
func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

type memoryRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationStore() RevocationStore {
	return &memoryRevocationStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Pruner is implemented by stores that need expired entries swept out.
type Pruner interface {
	Prune(ctx context.Context) (int, error)
}

func (m *memoryRevocationStore) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.pruneLocked(now)
	m.revoked[tokenHash] = now.Add(ttl)
	return nil
}

// Prune drops expired entries and reports how many were removed.
func (m *memoryRevocationStore) Prune(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pruneLocked(m.now()), nil
}

func (m *memoryRevocationStore) pruneLocked(now time.Time) int {
	removed := 0
	for hash, until := range m.revoked {
		if !until.After(now) {
			delete(m.revoked, hash)
			removed++
		}
	}
	return removed
}

func (m *memoryRevocationStore) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	until, ok := m.revoked[tokenHash]
	return ok && until.After(m.now()), nil
}

type redisRevocationStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisRevocationStore keeps revoked tokens under prefix:<hash> keys that
// expire with the token.
func NewRedisRevocationStore(rdb *redis.Client, prefix string) RevocationStore {
	if prefix == "" {
		prefix = "revoked"
	}
	return &redisRevocationStore{rdb: rdb, prefix: prefix}
}

func (r *redisRevocationStore) key(tokenHash string) string {
	return r.prefix + ":" + tokenHash
}

func (r *redisRevocationStore) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, r.key(tokenHash), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *redisRevocationStore) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.key(tokenHash)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}
