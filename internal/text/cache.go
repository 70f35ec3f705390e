package text

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultCacheExpiration = 10 * time.Minute
	DefaultCacheCleanup    = 30 * time.Minute
)

// Cached memoizes the results of another Measurer, keyed by content and
// width.
type Cached struct {
	next  Measurer
	ttl   time.Duration
	cache *gocache.Cache
}

// NewCached wraps next with an in-memory cache
func NewCached(next Measurer, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheExpiration
	}
	return &Cached{
		next:  next,
		ttl:   ttl,
		cache: gocache.New(ttl, DefaultCacheCleanup),
	}
}

// Measure implements Measurer. Unknown results are never cached.
func (c *Cached) Measure(content string, width float64) (float64, bool) {
	key := cacheKey(content, width)
	if v, found := c.cache.Get(key); found {
		if height, ok := v.(float64); ok {
			return height, true
		}
	}

	height, ok := c.next.Measure(content, width)
	if !ok {
		return 0, false
	}
	c.cache.Set(key, height, c.ttl)
	return height, true
}

// Len returns the number of cached measurements
func (c *Cached) Len() int {
	return c.cache.ItemCount()
}

// Flush drops every cached measurement
func (c *Cached) Flush() {
	c.cache.Flush()
}

func cacheKey(content string, width float64) string {
	return strconv.FormatFloat(width, 'g', -1, 64) + "\x00" + content
}
