// Package cache is a read-through cache keyed by storage key. Each key has
// one cached value and one ordered list of subscribers. Values are seeded
// from persistence on first access and replaced only through Mutate or
// Revalidate; there are no timers and no cross-key invalidation.
package cache

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/common/metrics"
)

// Fetcher loads the persisted value for key.
type Fetcher func(ctx context.Context, key string) any

// Handler receives the new value of a key after every mutation.
// Handlers run synchronously on the mutating goroutine and must not call
// back into the writer that triggered them.
type Handler func(key string, value any)

// Cache holds one entry per key.
type Cache struct {
	fetch   Fetcher
	entries map[string]*entry
	nextID  uint64
	mu      sync.Mutex
	logger  *logger.Logger
}

type entry struct {
	value  any
	loaded bool
	subs   []*Subscription
}

// Subscription is a registered Handler for a single key.
type Subscription struct {
	cache   *Cache
	key     string
	id      uint64
	handler Handler
}

// New creates a Cache that seeds entries with fetch.
func New(fetch Fetcher, log *logger.Logger) *Cache {
	if fetch == nil {
		panic("cache.New: fetcher is nil")
	}
	if log == nil {
		log = logger.Default()
	}
	return &Cache{
		fetch:   fetch,
		entries: make(map[string]*entry),
		logger:  log.WithFields(zap.String("component", "cache")),
	}
}

// entryLocked returns the entry for key, seeding it from the fetcher when it
// has never been loaded. c.mu must be held.
func (c *Cache) entryLocked(ctx context.Context, key string) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	if !e.loaded {
		e.value = c.fetch(ctx, key)
		e.loaded = true
	}
	return e
}

// Get returns the cached value for key.
func (c *Cache) Get(ctx context.Context, key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entryLocked(ctx, key).value
}

// Subscribe registers handler for key and returns the current value.
func (c *Cache) Subscribe(ctx context.Context, key string, handler Handler) (any, *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(ctx, key)
	c.nextID++
	sub := &Subscription{cache: c, key: key, id: c.nextID, handler: handler}
	e.subs = append(e.subs, sub)

	c.logger.Debug("subscribed", zap.String("key", key), zap.Int("subscribers", len(e.subs)))
	return e.value, sub
}

// Mutate replaces the cached value for key and notifies its subscribers.
// With revalidate=false the given value is trusted as-is: this is the
// optimistic path used right after a write-through. With revalidate=true the
// value is ignored and the entry is re-read from persistence.
func (c *Cache) Mutate(ctx context.Context, key string, value any, revalidate bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	if revalidate {
		value = c.fetch(ctx, key)
	}
	e.value = value
	e.loaded = true
	subs := make([]*Subscription, len(e.subs))
	copy(subs, e.subs)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.handler(key, value)
	}
	if len(subs) > 0 {
		metrics.CacheNotifications.WithLabelValues(key).Add(float64(len(subs)))
	}
}

// Revalidate re-reads key from persistence and notifies subscribers.
func (c *Cache) Revalidate(ctx context.Context, key string) {
	c.Mutate(ctx, key, nil, true)
}

// Keys returns the keys that currently have an entry, sorted.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Subscribers returns the number of live subscriptions for key.
func (c *Cache) Subscribers(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		return len(e.subs)
	}
	return 0
}

// Key returns the key this subscription listens to.
func (s *Subscription) Key() string {
	return s.key
}

// Unsubscribe removes the subscription. Calling it twice is harmless.
func (s *Subscription) Unsubscribe() {
	c := s.cache
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[s.key]
	if !ok {
		return
	}
	for i, sub := range e.subs {
		if sub.id == s.id {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return
		}
	}
}

// As converts a cached value to T, returning fallback when the value has a
// different type.
func As[T any](value any, fallback T) T {
	if v, ok := value.(T); ok {
		return v
	}
	return fallback
}
