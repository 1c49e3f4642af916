// Package cache provides an LRU cache of highlight results.
package cache

import (
	"container/list"
	"sync"
)

// HighlightCache is an LRU cache of highlighted sheet names keyed by
// document version and query.
type HighlightCache struct {
	capacity int
	cache    map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type cacheEntry struct {
	key   string
	value []string
}

// NewHighlightCache creates a cache holding up to capacity results.
// A capacity of zero or less disables caching.
func NewHighlightCache(capacity int) *HighlightCache {
	return &HighlightCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Key builds the cache key for a document version and query.
func Key(version, query string) string {
	return version + "\x00" + query
}

// Get returns the cached sheet names for key if present.
func (c *HighlightCache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		return append([]string(nil), elem.Value.(*cacheEntry).value...), true
	}
	return nil, false
}

// Set stores names for key, evicting the least recently used entry when full.
func (c *HighlightCache) Set(key string, names []string) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	value := append([]string(nil), names...)
	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	elem := c.lru.PushFront(&cacheEntry{key: key, value: value})
	c.cache[key] = elem

	if c.lru.Len() > c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Purge drops every entry, e.g. after the document is reloaded.
func (c *HighlightCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*list.Element)
	c.lru.Init()
}

// Len returns the number of cached results.
func (c *HighlightCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
