package cache_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/pystyle/pkg/cache"
)

func TestLRU_GetPut(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, int](100)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Put("a", 1, 10)

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, got)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate(), 1e-9)
	assert.Equal(t, int64(10), stats.Size)
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, int](30)

	c.Put("a", 1, 10)
	c.Put("b", 2, 10)
	c.Put("c", 3, 10)

	// Touch "a" so "b" becomes the oldest.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("d", 4, 10)

	_, ok = c.Get("b")
	assert.False(t, ok)

	for _, key := range []string{"a", "c", "d"} {
		_, ok = c.Get(key)
		assert.True(t, ok, key)
	}

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, int64(30), c.Stats().Size)
}

func TestLRU_UpdateReplacesSize(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, string](100)

	c.Put("a", "x", 10)
	c.Put("a", "y", 40)

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "y", got)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(40), c.Stats().Size)
}

func TestLRU_OversizedValueNotStored(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, int](10)
	c.Put("big", 1, 11)

	assert.Zero(t, c.Len())
}

func TestLRU_Remove(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[int, int](0)
	c.Put(1, 1, 1)
	c.Put(2, 2, 1)
	c.Remove(1)
	c.Remove(3)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(cache.DefaultMaxSize), c.Stats().MaxSize)
}

func TestLRU_ZeroHitRate(t *testing.T) {
	t.Parallel()

	assert.Zero(t, cache.Stats{}.HitRate())
}

func TestLRU_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[int, int](64)

	var wg sync.WaitGroup

	for worker := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 100 {
				c.Put(worker*100+i, i, 1)
				c.Get(i)
			}
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, c.Stats().Size, int64(64))
}
