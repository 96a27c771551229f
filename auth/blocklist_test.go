package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlocklist(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBlocklist()

	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryBlocklistPrunesExpired(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBlocklist()

	require.NoError(t, b.Revoke(ctx, "old", time.Now().Add(time.Minute)))
	b.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	require.NoError(t, b.Revoke(ctx, "new", time.Now().Add(time.Hour)))

	assert.Equal(t, 1, b.Len())
	revoked, _ := b.IsRevoked(ctx, "old")
	assert.False(t, revoked)
}

func TestRedisBlocklist(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	ctx := context.Background()

	b := NewRedisBlocklist(client)
	require.NoError(t, b.Revoke(ctx, "jti-1", time.Now().Add(10*time.Minute)))

	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := mr.TTL("blocklist:jti-1")
	assert.InDelta(t, (10 * time.Minute).Seconds(), ttl.Seconds(), 5)

	// The key disappears with the token's lifetime.
	mr.FastForward(11 * time.Minute)
	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisBlocklistKeepsAlreadyExpiredBriefly(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	b := NewRedisBlocklist(client)
	require.NoError(t, b.Revoke(context.Background(), "jti-2", time.Now().Add(-time.Minute)))
	assert.Equal(t, time.Second, mr.TTL("blocklist:jti-2"))
}
