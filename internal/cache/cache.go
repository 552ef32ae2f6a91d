// Package cache provides a thread-safe generic map plus the process-wide caches
// for static asset hashes and rendered listing descriptions.
package cache

import (
	"html/template"
	"sync"
)

type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[key]
	return val, ok
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// Take removes key and returns the value it held.
func (c *Cache[K, V]) Take(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.items[key]
	if ok {
		delete(c.items, key)
	}
	return val, ok
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]V)
}

// Drain empties the cache and returns everything it held.
func (c *Cache[K, V]) Drain() map[K]V {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.items
	c.items = make(map[K]V)
	return items
}

var renderedDescriptionCache = NewCache[string, template.HTML]()

// GetRenderedDescription looks up a description by the hash of its Markdown source.
func GetRenderedDescription(contentHash string) (template.HTML, bool) {
	return renderedDescriptionCache.Get(contentHash)
}

func SetRenderedDescription(contentHash string, html template.HTML) {
	renderedDescriptionCache.Set(contentHash, html)
}

func ClearRenderedDescriptionCache() {
	renderedDescriptionCache.Clear()
}
