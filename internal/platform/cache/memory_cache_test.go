package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	val, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, val)

	require.NoError(t, c.Set(ctx, "key", "value", 0))
	val, ok, err = c.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", val)

	// Overwrite
	require.NoError(t, c.Set(ctx, "key", "value2", 0))
	val, _, _ = c.Get(ctx, "key")
	assert.Equal(t, "value2", val)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "short", "v", 10*time.Millisecond))
	_, ok, err := c.Get(ctx, "short")
	require.NoError(t, err)
	assert.True(t, ok, "entry should be readable before expiry")

	time.Sleep(20 * time.Millisecond)
	_, ok, err = c.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok, "entry should be gone after TTL")
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "a", "1", 0))
	require.NoError(t, c.Set(ctx, "b", "2", 0))
	require.NoError(t, c.Delete(ctx, "a", "b", "never-existed"))

	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "b")
	assert.False(t, ok)
}

func TestMemoryCache_ListKeys(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "gl:accounts:1", "a", 0))
	require.NoError(t, c.Set(ctx, "gl:accounts:2", "b", 0))
	require.NoError(t, c.Set(ctx, "gl:entries:1", "c", 0))
	require.NoError(t, c.Set(ctx, "gl:accounts:expired", "d", 5*time.Millisecond))

	time.Sleep(10 * time.Millisecond)

	keys, err := c.ListKeys(ctx, "gl:accounts:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"gl:accounts:1", "gl:accounts:2"}, keys, "expired and foreign-prefix keys are excluded")
}
