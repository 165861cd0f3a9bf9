// Package cache implements the formula cache from spec.md §4.7: a
// process-local, concurrency-safe map from formula text to a built
// callable, with a single-flight guarantee so concurrent callers
// building the same key share one build instead of racing.
//
// The teacher's own concurrency primitives are all goroutine-loop /
// channel based (DWScript has no cross-formula cache of this shape to
// ground on). golang.org/x/sync/singleflight — the library
// github.com/Tangerg/lynx/flow in the retrieved pack depends on for
// exactly this "collapse concurrent identical requests into one"
// pattern — is adopted here instead of hand-rolling a per-key mutex
// map, per spec.md §9's note that "a sharded map of promises or a
// map-of-lazies is the standard pattern": singleflight.Group is that
// pattern, pre-built and race-tested.
package cache

import (
	"container/list"
	"sync"

	"golang.org/x/sync/singleflight"
)

// BuildFunc produces the value for a cache miss.
type BuildFunc[T any] func() (T, error)

// Cache is a formula-text-keyed cache of built callables. The zero
// value is not usable; construct with New or NewBounded.
type Cache[T any] struct {
	group    singleflight.Group
	mu       sync.Mutex
	entries  map[string]*list.Element // present only when capacity > 0
	order    *list.List                // LRU order, most-recent at Front
	plain    map[string]T              // present only when capacity == 0 (unbounded)
	capacity int
	enabled  bool
}

type lruEntry struct {
	key   string
	value any
}

// New returns an unbounded cache. If enabled is false, GetOrBuild
// always invokes its build function and never retains the result.
func New[T any](enabled bool) *Cache[T] {
	return &Cache[T]{enabled: enabled, plain: make(map[string]T)}
}

// NewBounded returns an LRU-bounded cache holding at most capacity
// entries. capacity must be > 0.
func NewBounded[T any](capacity int, enabled bool) *Cache[T] {
	return &Cache[T]{
		enabled:  enabled,
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// TryGet returns the cached value for text, if present, without
// building it.
func (c *Cache[T]) TryGet(text string) (T, bool) {
	var zero T
	if !c.enabled {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity > 0 {
		el, ok := c.entries[text]
		if !ok {
			return zero, false
		}
		c.order.MoveToFront(el)
		return el.Value.(*lruEntry).value.(T), true
	}

	v, ok := c.plain[text]
	return v, ok
}

// GetOrBuild returns the cached value for text, building it with
// build if absent. Concurrent calls for the same text share one
// build; concurrent calls for distinct text proceed independently.
// Failed builds are never cached — the next call for the same text
// retries.
func (c *Cache[T]) GetOrBuild(text string, build BuildFunc[T]) (T, error) {
	var zero T

	if !c.enabled {
		return build()
	}

	if v, ok := c.TryGet(text); ok {
		return v, nil
	}

	result, err, _ := c.group.Do(text, func() (any, error) {
		// Re-check: another goroutine may have finished building this
		// key between our TryGet above and acquiring the
		// singleflight slot.
		if v, ok := c.TryGet(text); ok {
			return v, nil
		}
		v, err := build()
		if err != nil {
			return nil, err
		}
		c.store(text, v)
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

func (c *Cache[T]) store(text string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity > 0 {
		if el, ok := c.entries[text]; ok {
			el.Value.(*lruEntry).value = v
			c.order.MoveToFront(el)
			return
		}
		el := c.order.PushFront(&lruEntry{key: text, value: v})
		c.entries[text] = el
		if c.order.Len() > c.capacity {
			oldest := c.order.Back()
			if oldest != nil {
				c.order.Remove(oldest)
				delete(c.entries, oldest.Value.(*lruEntry).key)
			}
		}
		return
	}

	c.plain[text] = v
}

// Len reports the number of cached entries.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.capacity > 0 {
		return c.order.Len()
	}
	return len(c.plain)
}
