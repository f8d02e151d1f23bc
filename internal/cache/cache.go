// Package cache provides a bounded in-memory TTL cache used for HTTP
// responses.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache stores values by string key with a time to live.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration)
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a fixed-capacity LRU whose entries expire after the default
// TTL, or earlier when Set is given a shorter ttl. Safe for concurrent use.
type TTLCache[V any] struct {
	lru *expirable.LRU[string, entry[V]]
	ttl time.Duration
	now func() time.Time
}

// NewTTLCache builds a cache holding at most size entries for at most ttl.
func NewTTLCache[V any](size int, ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		lru: expirable.NewLRU[string, entry[V]](size, nil, ttl),
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached value if present and not expired.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		c.lru.Remove(key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key. A ttl that is zero, negative or longer than the
// cache default falls back to the default.
func (c *TTLCache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 || ttl > c.ttl {
		ttl = c.ttl
	}
	c.lru.Add(key, entry[V]{value: value, expiresAt: c.now().Add(ttl)})
}

// Len reports the number of entries, including ones not yet swept.
func (c *TTLCache[V]) Len() int { return c.lru.Len() }

// Purge drops every entry.
func (c *TTLCache[V]) Purge() { c.lru.Purge() }
