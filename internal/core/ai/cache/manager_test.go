package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fridge-chef/internal/infrastructure/config"
	"fridge-chef/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCacheConfig(maxSize int, ttl time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.Cache.Enabled = true
	cfg.Cache.Backend = "memory"
	cfg.Cache.MaxSize = maxSize
	cfg.Cache.TTL = ttl
	cfg.Cache.CleanupInterval = time.Hour
	return cfg
}

func TestManagerSetAndGet(t *testing.T) {
	m := NewManager(testCacheConfig(10, time.Minute))
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "prompt", "image", "cached response"))

	got, err := m.Get(ctx, "prompt", "image")
	require.NoError(t, err)
	assert.Equal(t, "cached response", got)
}

func TestManagerMiss(t *testing.T) {
	m := NewManager(testCacheConfig(10, time.Minute))
	defer m.Close()

	_, err := m.Get(context.Background(), "unknown", "")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
}

func TestManagerKeySeparatesImageAndText(t *testing.T) {
	m := NewManager(testCacheConfig(10, time.Minute))
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "prompt", "", "text answer"))
	require.NoError(t, m.Set(ctx, "prompt", "image", "vision answer"))

	got, err := m.Get(ctx, "prompt", "")
	require.NoError(t, err)
	assert.Equal(t, "text answer", got)

	got, err = m.Get(ctx, "prompt", "image")
	require.NoError(t, err)
	assert.Equal(t, "vision answer", got)
}

func TestManagerTTLExpiry(t *testing.T) {
	m := NewManager(testCacheConfig(10, 10*time.Millisecond))
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "prompt", "", "value"))

	time.Sleep(30 * time.Millisecond)

	_, err := m.Get(ctx, "prompt", "")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
}

func TestManagerLRUEviction(t *testing.T) {
	m := NewManager(testCacheConfig(3, time.Minute))
	defer m.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, m.Set(ctx, fmt.Sprintf("prompt-%d", i), "", "value"))
	}

	// touch 0 and 1 so 2 is the least recently used
	_, err := m.Get(ctx, "prompt-0", "")
	require.NoError(t, err)
	_, err = m.Get(ctx, "prompt-1", "")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "prompt-3", "", "value"))

	_, err = m.Get(ctx, "prompt-2", "")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	_, err = m.Get(ctx, "prompt-0", "")
	assert.NoError(t, err)
}

func TestNewSelectsBackend(t *testing.T) {
	cfg := testCacheConfig(10, time.Minute)
	c, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, c)
	_, ok := c.(*Manager)
	assert.True(t, ok)
	c.Close()

	disabled := &config.Config{}
	c, err = New(disabled)
	require.NoError(t, err)
	assert.Nil(t, c)
}
