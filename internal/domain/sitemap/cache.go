package sitemap

// Cache memoizes hierarchy operations for the lifetime of one inbound
// request. Keys are {provider}:{operation}:{argument}; negative results are
// cached per argument like any other. No eviction and no locking: the cache
// is bounded by the request and owned by a single goroutine.
type Cache struct {
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value any
	err   error
}

// NewCache creates an empty request cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Len returns the number of memoized slots.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// getOrCompute returns the memoized result for key, computing and storing
// it on first use. A nil cache degrades to calling compute directly.
func getOrCompute[T any](c *Cache, key string, compute func() (T, error)) (T, error) {
	if c == nil {
		return compute()
	}
	if entry, ok := c.entries[key]; ok {
		value, _ := entry.value.(T)
		return value, entry.err
	}
	value, err := compute()
	c.entries[key] = cacheEntry{value: value, err: err}
	return value, err
}
