package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/config"
)

type item struct {
	Name  string
	Price float64
}

func setupTestCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestSetGetInvalidate(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	want := []item{{Name: "Corte", Price: 40}, {Name: "Barba", Price: 25}}
	require.NoError(t, c.Set(ctx, "services:all", want, time.Minute))

	var got []item
	found, err := c.Get(ctx, "services:all", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, c.Invalidate(ctx, "services:all"))
	found, err = c.Get(ctx, "services:all", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetNotFound(t *testing.T) {
	c, _ := setupTestCache(t)

	var out item
	found, err := c.Get(context.Background(), "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRevokeExpires(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))

	revoked, err := c.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = c.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = c.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, c.Revoke(ctx, "jti-3", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(revokedPrefix+"jti-3"))
}

func TestNewRedisUnreachable(t *testing.T) {
	_, err := NewRedis(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
