package pool

import "sync"

// Shared is a Store safe for concurrent use, backed by sync.Pool.
// Use it when instances cannot stay with one goroutine; sync.Pool never
// hands the same instance to two callers.
type Shared[T any] struct {
	pool sync.Pool
}

// NewShared creates an empty concurrent store
func NewShared[T any]() *Shared[T] {
	return &Shared[T]{}
}

// Get takes an instance from the pool if one is available
func (s *Shared[T]) Get() (T, bool) {
	v := s.pool.Get()
	if v == nil {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Put hands an instance back to the pool.
// The runtime may still release it on the next GC cycle.
func (s *Shared[T]) Put(item T) bool {
	s.pool.Put(item)
	return true
}
