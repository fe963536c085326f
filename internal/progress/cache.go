package progress

import (
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/julianstephens/dailies/internal/models"
)

// CacheKey identifies one user's day
type CacheKey struct {
	UserID string
	Day    string
}

type cacheEntry struct {
	progress  models.Progress
	timestamp time.Time
}

// Cache memoizes Progress per (user, day) for a fixed TTL. Freshness is
// judged against the injected clock; the underlying ttlcache evicts entries
// on wall time so stale days do not pile up. Each key also carries a version
// that every invalidation bumps, so a computation started before an
// invalidation cannot store its result afterwards.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	items    *ttlcache.Cache[CacheKey, cacheEntry]
	versions map[CacheKey]uint64
	epoch    uint64
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl: ttl,
		now: time.Now,
		items: ttlcache.New[CacheKey, cacheEntry](
			ttlcache.WithTTL[CacheKey, cacheEntry](ttl),
			ttlcache.WithDisableTouchOnHit[CacheKey, cacheEntry](),
		),
		versions: make(map[CacheKey]uint64),
	}
}

// SetClock replaces the clock used to stamp and age entries.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Get returns the cached value, or false when absent or at least TTL old.
func (c *Cache) Get(userID, day string) (models.Progress, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.items.Get(CacheKey{userID, day})
	if item == nil {
		return models.Progress{}, false
	}
	e := item.Value()
	if c.now().Sub(e.timestamp) >= c.ttl {
		return models.Progress{}, false
	}
	return e.progress, true
}

// Put stores p stamped with the current time, replacing any entry.
func (c *Cache) Put(userID, day string, p models.Progress) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(CacheKey{userID, day}, p)
}

func (c *Cache) store(key CacheKey, p models.Progress) {
	c.items.DeleteExpired()
	c.items.Set(key, cacheEntry{progress: p, timestamp: c.now()}, ttlcache.DefaultTTL)
}

// Version returns the key's current version.
func (c *Cache) Version(userID, day string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch + c.versions[CacheKey{userID, day}]
}

// PutVersion stores p only if the key has not been invalidated since
// version was read. It reports whether p was stored.
func (c *Cache) PutVersion(userID, day string, p models.Progress, version uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := CacheKey{userID, day}
	if c.epoch+c.versions[key] != version {
		return false
	}
	c.store(key, p)
	return true
}

// Invalidate drops one entry. Missing entries are ignored.
func (c *Cache) Invalidate(userID, day string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := CacheKey{userID, day}
	c.items.Delete(key)
	c.versions[key]++
}

// InvalidateAll drops every entry of every user. The epoch moves past every
// version handed out so far, which lets the per-key counters start over.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.DeleteAll()
	var highest uint64
	for _, v := range c.versions {
		highest = max(highest, v)
	}
	c.epoch += highest + 1
	c.versions = make(map[CacheKey]uint64)
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Len()
}

// trackedVersions is the number of keys with a version of their own.
func (c *Cache) trackedVersions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.versions)
}
