package template

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache stores resolved templates process-wide. Templates are
// immutable once installed, so entries are invalidated only on
// explicit install or update, never implicitly. The cache is an
// explicit dependency of the Resolver rather than package state, so
// tests and concurrent callers can hold independent caches.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Resolved
	group   singleflight.Group
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Resolved)}
}

// GetOrResolve returns the cached entry for key, or runs resolve and
// caches its result. Concurrent calls for the same key share one
// resolve via singleflight.
func (c *Cache) GetOrResolve(key string, resolve func() (*Resolved, error)) (*Resolved, error) {
	c.mu.RLock()
	if r, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		return r, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		r, err := resolve()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = r
		c.mu.Unlock()
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Resolved), nil
}

// Invalidate drops every entry whose chain references name. Called
// after a template install or update.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, r := range c.entries {
		if r.Name == name {
			delete(c.entries, key)
			continue
		}
		for _, link := range append(r.Chain, r.Includes...) {
			if link == name {
				delete(c.entries, key)
				break
			}
		}
	}
}

// Clear drops all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Resolved)
}

// Len reports the number of cached resolutions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
