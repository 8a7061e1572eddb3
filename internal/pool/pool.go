package pool

import (
	"github.com/eapache/queue"
)

// DefaultCapacity is the number of spare instances a Cache keeps by default
const DefaultCapacity = 4

// Store hands out spare instances and takes them back
type Store[T any] interface {
	// Get returns a spare instance, ok is false when none is available
	Get() (item T, ok bool)

	// Put offers an instance for reuse, returns false if it was not retained
	Put(item T) bool
}

// Recyclable is implemented by objects that reset themselves and return to their store
type Recyclable interface {
	Recycle()
}

// Stats holds cache usage counters
type Stats struct {
	Hits   uint64 // Get served from the cache
	Misses uint64 // Get found the cache empty
	Puts   uint64 // Put retained the instance
	Drops  uint64 // Put discarded the instance (cache full)
}

// Cache is a bounded cache of spare instances owned by a single goroutine.
// It replaces a thread-local cache: the owner creates it and passes it to
// whatever needs it. Not safe for concurrent use.
type Cache[T any] struct {
	capacity int
	spares   *queue.Queue
	stats    Stats
}

// NewCache creates a cache that retains at most capacity spares.
// capacity <= 0 selects DefaultCapacity.
func NewCache[T any](capacity int) *Cache[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[T]{
		capacity: capacity,
		spares:   queue.New(),
	}
}

// Get takes a spare instance from the cache
func (c *Cache[T]) Get() (T, bool) {
	if c.spares.Length() == 0 {
		c.stats.Misses++
		var zero T
		return zero, false
	}
	c.stats.Hits++
	return c.spares.Remove().(T), true
}

// Put returns an instance to the cache, dropping it when the cache is full
func (c *Cache[T]) Put(item T) bool {
	if c.spares.Length() >= c.capacity {
		c.stats.Drops++
		return false
	}
	c.spares.Add(item)
	c.stats.Puts++
	return true
}

// Len returns the number of spares currently held
func (c *Cache[T]) Len() int {
	return c.spares.Length()
}

// Cap returns the maximum number of spares retained
func (c *Cache[T]) Cap() int {
	return c.capacity
}

// Stats returns a snapshot of the usage counters
func (c *Cache[T]) Stats() Stats {
	return c.stats
}
