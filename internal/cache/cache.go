// Package cache provides a thread-safe generic cache with optional expiry,
// plus the process-wide caches for rendered card bodies and static file
// hashes.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value  V
	stored time.Time
}

type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]entry[V]

	// ttl of zero keeps entries until they are deleted.
	ttl time.Duration
	now func() time.Time
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return NewTTLCache[K, V](0)
}

// NewTTLCache returns a cache whose entries stop being returned ttl after
// they were set.
func NewTTLCache[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]entry[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *Cache[K, V]) fresh(e entry[V]) bool {
	return c.ttl <= 0 || c.now().Sub(e.stored) < c.ttl
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[key]
	if !ok || !c.fresh(e) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[V]{value: value, stored: c.now()}
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]entry[V])
}

// Len counts stored entries, expired or not.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// rendered holds card bodies keyed by "<engine>:<theme>:<content hash>".
var rendered = NewCache[string, []byte]()

func GetRenderedBody(key string) ([]byte, bool) {
	return rendered.Get(key)
}

func SetRenderedBody(key string, html []byte) {
	rendered.Set(key, html)
}
