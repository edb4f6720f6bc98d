package recall

import (
	"go.uber.org/zap"

	"github.com/a-marczewski/memocare/internal/memory"
	"github.com/a-marczewski/memocare/internal/storage"
)

// Cache maps normalized query strings to previously computed results. It is
// persisted across sessions, grows without bound, and is never invalidated
// when new memories arrive: a cached answer lags until the exact query string
// changes. That staleness is a documented trade-off, not a bug to fix here.
type Cache struct {
	db      *storage.DB
	log     *zap.Logger
	entries map[string]memory.QueryResult
}

// NewCache loads the persisted cache. A corrupt blob is treated as no prior
// data.
func NewCache(db *storage.DB, logger *zap.Logger) *Cache {
	c := &Cache{db: db, log: logger, entries: make(map[string]memory.QueryResult)}
	if _, err := db.LoadJSON(storage.KeyQueryCache, &c.entries); err != nil {
		logger.Warn("Discarding unreadable query cache entry", zap.Error(err))
		c.entries = make(map[string]memory.QueryResult)
	}
	if c.entries == nil {
		c.entries = make(map[string]memory.QueryResult)
	}
	return c
}

// Get returns the cached result for a normalized key, verbatim.
func (c *Cache) Get(key string) (memory.QueryResult, bool) {
	result, ok := c.entries[key]
	return result, ok
}

// Put stores a computed result and persists the cache. Persistence is
// fire-and-forget.
func (c *Cache) Put(key string, result memory.QueryResult) {
	c.entries[key] = result
	if err := c.db.SaveJSON(storage.KeyQueryCache, c.entries); err != nil {
		c.log.Error("Failed to persist query cache", zap.Error(err))
	}
}

// Len reports the number of cached queries.
func (c *Cache) Len() int {
	return len(c.entries)
}
