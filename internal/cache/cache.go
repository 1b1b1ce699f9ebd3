package cache

import (
	"slices"

	"github.com/dgraph-io/ristretto"
)

// DecodeCache maps IDs to the numbers they decode to.
type DecodeCache struct {
	cache *ristretto.Cache
}

func New(maxSizePow2 int) (*DecodeCache, error) {
	maxCost := max(1, int64(1)<<maxSizePow2)
	numCounters := max(1, maxCost/50) // ~50 bytes per entry estimate

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}
	return &DecodeCache{cache: cache}, nil
}

func (c *DecodeCache) Get(id string) ([]uint64, bool) {
	val, found := c.cache.Get(id)
	if !found {
		return nil, false
	}
	return slices.Clone(val.([]uint64)), true
}

func (c *DecodeCache) Set(id string, numbers []uint64) {
	cost := int64(len(id) + 8*len(numbers))
	c.cache.Set(id, slices.Clone(numbers), cost)
}

func (c *DecodeCache) Close() {
	c.cache.Close()
}

func (c *DecodeCache) Stats() (hits, misses uint64, ratio float64) {
	metrics := c.cache.Metrics
	hits = metrics.Hits()
	misses = metrics.Misses()
	ratio = metrics.Ratio()
	return
}
