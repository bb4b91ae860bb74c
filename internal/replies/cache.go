// ABOUTME: SHA256-keyed cache for rendered reply fragments
// ABOUTME: Keyed by fragment key plus variable values; cleared on reload

package replies

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Cache stores rendered fragments keyed by a hash of key + variables.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
	limit   int
}

// NewCache creates an empty cache holding at most limit entries (0 = unbounded).
// User text flows into variables, so an unbounded cache grows with every
// distinct question; callers embedding the library in long-lived processes set a limit.
func NewCache(limit int) *Cache {
	return &Cache{entries: make(map[string]string), limit: limit}
}

// Get returns a cached rendering and true, or empty string and false.
func (c *Cache) Get(key string, vars Vars) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, ok := c.entries[cacheKey(key, vars)]
	return val, ok
}

// Set stores a rendering. When the cache is full it is emptied first.
func (c *Cache) Set(key string, vars Vars, rendered string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.limit > 0 && len(c.entries) >= c.limit {
		clear(c.entries)
	}
	c.entries[cacheKey(key, vars)] = rendered
}

// Invalidate clears all cache entries.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
}

// Size returns the number of cached entries.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func cacheKey(key string, vars Vars) string {
	var b strings.Builder
	b.WriteString(key)
	b.WriteByte('\x00')
	for _, k := range slices.Sorted(maps.Keys(vars)) {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(vars[k])
		b.WriteByte('\x00')
	}

	h := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(h[:])
}
