package trends

import (
	"context"
	"time"

	"github.com/DeafMist/trend-dashboard/internal/cache"
)

const cacheCapacity = 32

// Cached decorates a Source so identical queries within ttl share one
// upstream call. Errors are not cached.
type Cached struct {
	src     Source
	overall *cache.Cache[[]RawPoint]
	region  *cache.Cache[[]RawRegion]
}

// NewCached wraps src.
func NewCached(src Source, ttl time.Duration) *Cached {
	return &Cached{
		src:     src,
		overall: cache.New[[]RawPoint](cacheCapacity, ttl),
		region:  cache.New[[]RawRegion](cacheCapacity, ttl),
	}
}

// InterestOverTime implements Source.
func (c *Cached) InterestOverTime(ctx context.Context, q Query) ([]RawPoint, error) {
	if v, ok := c.overall.Get(q.Key()); ok {
		return v, nil
	}
	v, err := c.src.InterestOverTime(ctx, q)
	if err != nil {
		return nil, err
	}
	c.overall.Put(q.Key(), v)
	return v, nil
}

// InterestByRegion implements Source.
func (c *Cached) InterestByRegion(ctx context.Context, q Query) ([]RawRegion, error) {
	if v, ok := c.region.Get(q.Key()); ok {
		return v, nil
	}
	v, err := c.src.InterestByRegion(ctx, q)
	if err != nil {
		return nil, err
	}
	c.region.Put(q.Key(), v)
	return v, nil
}
