package consolidation

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"order-consolidation/internal/domain"
)

// DefaultCacheSize bounds the number of routes kept during one run.
const DefaultCacheSize = 1024

// RouteCache memoizes routes by base order id for the lifetime of a single run.
// Concurrent lookups of the same base share one provider call. Failures are not stored.
// A nil *RouteCache is valid and fetches every time.
type RouteCache struct {
	mu     sync.RWMutex
	routes map[int64]domain.Route
	limit  int
	group  singleflight.Group
	rec    Recorder
}

// NewRouteCache returns an empty cache holding at most limit routes.
func NewRouteCache(limit int, rec Recorder) *RouteCache {
	if limit <= 0 {
		limit = DefaultCacheSize
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &RouteCache{
		routes: make(map[int64]domain.Route),
		limit:  limit,
		rec:    rec,
	}
}

// Get returns the cached route for baseID or resolves it with fetch.
func (c *RouteCache) Get(
	ctx context.Context,
	baseID int64,
	fetch func(context.Context) (domain.Route, error),
) (domain.Route, error) {
	if c == nil {
		return fetch(ctx)
	}
	if r, ok := c.load(baseID); ok {
		c.rec.RouteCacheLookup(true)
		return r, nil
	}
	c.rec.RouteCacheLookup(false)

	v, err, _ := c.group.Do(strconv.FormatInt(baseID, 10), func() (any, error) {
		if r, ok := c.load(baseID); ok {
			return r, nil
		}
		r, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if !c.store(baseID, r) {
			c.rec.RouteCacheSkipped()
		}
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(domain.Route), nil
}

// Len returns the number of cached routes.
func (c *RouteCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.routes)
}

func (c *RouteCache) load(id int64) (domain.Route, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.routes[id]
	return r, ok
}

// store reports false when the cache is full and r was not kept.
func (c *RouteCache) store(id int64, r domain.Route) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.routes) >= c.limit {
		return false
	}
	c.routes[id] = r
	return true
}
