package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqids/internal/cache"
)

func TestNew_ValidSize(t *testing.T) {
	c, err := cache.New(10)
	require.NoError(t, err)
	require.NotNil(t, c)
	defer c.Close()
}

func TestNew_ZeroSize(t *testing.T) {
	c, err := cache.New(0)
	require.NoError(t, err)
	require.NotNil(t, c)
	defer c.Close()
}

func TestGet_MissingKey(t *testing.T) {
	c, err := cache.New(10)
	require.NoError(t, err)
	defer c.Close()

	val, found := c.Get("nonexistent")
	assert.False(t, found)
	assert.Nil(t, val)
}

func TestSetThenGet(t *testing.T) {
	c, err := cache.New(20)
	require.NoError(t, err)
	defer c.Close()

	c.Set("8QRLaD", []uint64{1, 2, 3})
	time.Sleep(10 * time.Millisecond) // Ristretto needs time to process

	val, found := c.Get("8QRLaD")
	assert.True(t, found)
	assert.Equal(t, []uint64{1, 2, 3}, val)
}

func TestSet_StoresCopy(t *testing.T) {
	c, err := cache.New(20)
	require.NoError(t, err)
	defer c.Close()

	numbers := []uint64{4, 5}
	c.Set("id", numbers)
	numbers[0] = 99
	time.Sleep(10 * time.Millisecond)

	got, found := c.Get("id")
	require.True(t, found)
	assert.Equal(t, []uint64{4, 5}, got)

	got[1] = 99
	again, _ := c.Get("id")
	assert.Equal(t, []uint64{4, 5}, again)
}

func TestSet_MultipleKeys(t *testing.T) {
	c, err := cache.New(20)
	require.NoError(t, err)
	defer c.Close()

	entries := map[string][]uint64{
		"bV":   {0},
		"U9":   {1},
		"SrIu": {0, 0},
	}

	for k, v := range entries {
		c.Set(k, v)
	}
	time.Sleep(10 * time.Millisecond)

	for k, want := range entries {
		got, found := c.Get(k)
		assert.True(t, found, "key %q should be found", k)
		assert.Equal(t, want, got, "key %q value mismatch", k)
	}
}

func TestStats_AfterOperations(t *testing.T) {
	c, err := cache.New(20)
	require.NoError(t, err)
	defer c.Close()

	hits, misses, _ := c.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(0), misses)

	c.Get("nonexistent")

	_, misses, _ = c.Stats()
	assert.Equal(t, uint64(1), misses)

	c.Set("key1", []uint64{1})
	time.Sleep(10 * time.Millisecond)
	c.Get("key1")

	hits, _, ratio := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, 0.5, ratio)
}
