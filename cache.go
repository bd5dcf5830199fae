package goxmv

import "sync"

// fifoCache is a small bounded memo cache with insertion-order eviction.
// Transcript chunks repeat heavily across a trace (unchanged variables,
// re-enumerated candidate states), so parsing results are worth memoizing,
// but the cache must not grow with transcript size. Pure optimization:
// every cached function is deterministic.
type fifoCache[K comparable, V any] struct {
	mu    sync.Mutex
	cap   int
	vals  map[K]V
	order []K
}

func newFIFOCache[K comparable, V any](capacity int) *fifoCache[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &fifoCache[K, V]{
		cap:  capacity,
		vals: make(map[K]V, capacity),
	}
}

func (c *fifoCache[K, V]) get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.vals[key]
	return v, ok
}

func (c *fifoCache[K, V]) put(key K, val V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.vals[key]; ok {
		c.vals[key] = val
		return
	}
	if len(c.order) >= c.cap {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.vals, oldest)
	}
	c.vals[key] = val
	c.order = append(c.order, key)
}

func (c *fifoCache[K, V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.vals)
}
