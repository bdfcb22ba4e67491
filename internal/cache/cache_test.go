package cache_test

import (
	"testing"
	"time"

	"github.com/DeafMist/trend-dashboard/internal/cache"
	"github.com/stretchr/testify/require"
)

func TestCacheHit(t *testing.T) {
	c := cache.New[int](10, time.Minute)
	_, ok := c.Get("alpha")
	require.False(t, ok)

	c.Put("alpha", 7)
	v, ok := c.Get("alpha")
	require.True(t, ok)
	require.Equal(t, 7, v)
}

func TestCacheTTLExpiry(t *testing.T) {
	c := cache.New[string](10, 20*time.Millisecond)
	c.Put("beta", "b")
	time.Sleep(25 * time.Millisecond)
	_, ok := c.Get("beta")
	require.False(t, ok)
}

func TestCacheCapacityEvictsOldest(t *testing.T) {
	c := cache.New[string](1, time.Minute)
	c.Put("first", "1")
	c.Put("second", "2")

	_, ok := c.Get("first")
	require.False(t, ok)
	v, ok := c.Get("second")
	require.True(t, ok)
	require.Equal(t, "2", v)
}

func TestCacheOverwriteKeepsLatest(t *testing.T) {
	c := cache.New[int](2, time.Minute)
	c.Put("k", 1)
	c.Put("k", 2)
	c.Put("other", 3)

	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, 2, v)
}
