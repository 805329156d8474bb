package glob

import (
	"sync"
)

type cacheKey struct {
	kind    Kind
	pattern string
}

// Cache memoizes compiled patterns. The zero value is ready to use and is
// safe for concurrent use.
type Cache struct {
	mu       sync.RWMutex
	patterns map[cacheKey]*Pattern
}

// Path returns a compiled path pattern, compiling it on first use.
func (c *Cache) Path(pattern string) (*Pattern, error) {
	return c.get(KindPath, pattern)
}

// Name returns a compiled name pattern, compiling it on first use.
func (c *Cache) Name(pattern string) (*Pattern, error) {
	return c.get(KindName, pattern)
}

// Len returns the number of cached patterns.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.patterns)
}

func (c *Cache) get(kind Kind, pattern string) (*Pattern, error) {
	key := cacheKey{kind: kind, pattern: pattern}

	c.mu.RLock()
	p, ok := c.patterns[key]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	p, err := compile(kind, pattern)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.patterns[key]; ok {
		return prev, nil
	}
	if c.patterns == nil {
		c.patterns = make(map[cacheKey]*Pattern)
	}
	c.patterns[key] = p

	return p, nil
}
