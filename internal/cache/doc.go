// Package cache provides a generic thread-safe LRU cache with a soft limit.
//
//	c := cache.New[string, int](100)
//	c.Set("key", 42)
//	value, ok := c.Get("key")
//
// When the cache grows past its soft limit the least recently used quarter
// of the entries is evicted.
package cache
