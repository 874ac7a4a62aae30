// Package cache memoizes package version lookups so a version directory is
// listed once per process.
package cache

import (
	"sync"
)

// Lookup returns the version of packageName installed under root.
type Lookup func(root, packageName string) (string, error)

type key struct {
	root        string
	packageName string
}

type entry struct {
	version string
	err     error
}

// VersionCache caches the results of a Lookup, errors included, for the life
// of the process.
type VersionCache struct {
	mu      sync.RWMutex
	lookup  Lookup
	entries map[key]entry
}

// NewVersionCache creates a new VersionCache in front of lookup.
func NewVersionCache(lookup Lookup) *VersionCache {
	return &VersionCache{
		lookup:  lookup,
		entries: make(map[key]entry),
	}
}

// Get returns the cached version of packageName under root, or calls the
// lookup when it is not cached yet.
func (c *VersionCache) Get(root, packageName string) (string, error) {
	k := key{root: root, packageName: packageName}

	c.mu.RLock()
	if e, ok := c.entries[k]; ok {
		c.mu.RUnlock()
		return e.version, e.err
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if e, ok := c.entries[k]; ok {
		return e.version, e.err
	}

	version, err := c.lookup(root, packageName)
	c.entries[k] = entry{version: version, err: err}
	return version, err
}
