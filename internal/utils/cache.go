package utils

import (
	"os"
	"sync"
	"time"
)

// Stamp identifies one version of a file on disk
type Stamp struct {
	ModTime time.Time
	Size    int64
}

// StampOf reads the current stamp of path
func StampOf(path string) (Stamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Stamp{}, err
	}
	return Stamp{ModTime: info.ModTime(), Size: info.Size()}, nil
}

type cacheEntry[V any] struct {
	value V
	path  string // empty for entries not backed by a file
	stamp Stamp
}

// Cache memoizes loaded values. Entries stored with PutFile remember the
// file they were read from and go stale when it changes, so template
// overrides edited during watch mode are picked up on the next render.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]cacheEntry[V]
	hits    int
	misses  int
}

// NewCache creates an empty cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{entries: make(map[K]cacheEntry[V])}
}

// Get returns a cached value. File-backed entries are checked against the
// file first; a changed or vanished file drops the entry.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if ok && entry.path != "" {
		if stamp, err := StampOf(entry.path); err != nil || !stamp.ModTime.Equal(entry.stamp.ModTime) || stamp.Size != entry.stamp.Size {
			c.Invalidate(key)
			ok = false
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !ok {
		c.misses++
		return zero, false
	}
	c.hits++
	return entry.value, true
}

// Put stores a value that never goes stale
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[V]{value: value}
}

// PutFile stores a value read from path together with the file's stamp
func (c *Cache[K, V]) PutFile(key K, value V, path string) error {
	stamp, err := StampOf(path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[V]{value: value, path: path, stamp: stamp}
	return nil
}

// GetOrLoad returns the cached value or stores the result of load. Failed
// loads are not cached.
func (c *Cache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Put(key, v)
	return v, nil
}

// Invalidate drops the given keys, or every entry when none are given
func (c *Cache[K, V]) Invalidate(keys ...K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		c.entries = make(map[K]cacheEntry[V])
		return
	}
	for _, k := range keys {
		delete(c.entries, k)
	}
}

// Len returns the number of entries
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counts since creation
func (c *Cache[K, V]) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
