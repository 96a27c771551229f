package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blocklist records revoked token ids (JTI) until the token would have expired anyway.
type Blocklist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryBlocklist keeps revocations in process. They are lost on restart.
type MemoryBlocklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryBlocklist() *MemoryBlocklist {
	return &MemoryBlocklist{entries: make(map[string]time.Time), now: time.Now}
}

// Revoke adds jti and drops entries whose tokens have expired.
func (b *MemoryBlocklist) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for id, exp := range b.entries {
		if !exp.After(now) {
			delete(b.entries, id)
		}
	}
	b.entries[jti] = expiresAt
	return nil
}

func (b *MemoryBlocklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.entries[jti]
	return ok, nil
}

// Len returns the number of tracked revocations.
func (b *MemoryBlocklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// RedisBlocklist stores one key per revoked JTI with a TTL matching the token's
// remaining lifetime, so revocations survive restarts and are shared by replicas.
type RedisBlocklist struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisBlocklist(client *redis.Client) *RedisBlocklist {
	return &RedisBlocklist{client: client, prefix: "blocklist:", now: time.Now}
}

func (b *RedisBlocklist) key(jti string) string { return b.prefix + jti }

func (b *RedisBlocklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl < time.Second {
		// Expired or about to; keep it briefly so in-flight requests still see it.
		ttl = time.Second
	}
	if err := b.client.Set(ctx, b.key(jti), expiresAt.Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke token %s: %w", jti, err)
	}
	return nil
}

func (b *RedisBlocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check token %s: %w", jti, err)
	}
	return n > 0, nil
}
