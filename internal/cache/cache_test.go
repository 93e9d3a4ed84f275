package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// exercise corre el mismo contrato sobre cualquier backend.
func exercise(t *testing.T, c Client) {
	t.Helper()
	ctx := context.Background()
	key := uuid.NewString()

	_, err := c.Get(ctx, key)
	require.True(t, IsNotFound(err))
	ok, err := c.Exists(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, key, "v1", time.Minute))
	v, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "v1", v)
	ok, err = c.Exists(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.Delete(ctx, key))
	require.NoError(t, c.Delete(ctx, key))
	_, err = c.Get(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)

	short := uuid.NewString()
	require.NoError(t, c.Set(ctx, short, "x", 50*time.Millisecond))
	require.Eventually(t, func() bool {
		ok, err := c.Exists(ctx, short)
		return err == nil && !ok
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, c.Ping(ctx))
}

func TestMemoryClient(t *testing.T) {
	c := NewMemory("test:", time.Minute)
	defer c.Close()
	exercise(t, c)
}

func TestMemoryPrefixIsolation(t *testing.T) {
	ctx := context.Background()
	a := NewMemory("a:", 0)
	b := NewMemory("b:", 0)
	require.NoError(t, a.Set(ctx, "k", "from-a", 0))
	_, err := b.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	v, err := a.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "from-a", v)
}

func TestNew(t *testing.T) {
	c, err := New(context.Background(), Config{Kind: "memory", DefaultTTL: time.Minute})
	require.NoError(t, err)
	require.NotNil(t, c)

	_, err = New(context.Background(), Config{Kind: "memcached"})
	require.Error(t, err)
}

func TestRedisClient(t *testing.T) {
	addr := os.Getenv("LOBBY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LOBBY_TEST_REDIS_ADDR not set")
	}
	c, err := New(context.Background(), Config{Kind: "redis", Addr: addr, Prefix: "lobbytest:"})
	require.NoError(t, err)
	defer c.Close()
	exercise(t, c)
}

func TestRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedis(ctx, Config{Addr: "127.0.0.1:1"})
	require.Error(t, err)
}
