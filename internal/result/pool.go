package result

import (
	"github.com/SkynetNext/writeresult/internal/holder"
	"github.com/SkynetNext/writeresult/internal/metrics"
	"github.com/SkynetNext/writeresult/internal/pool"
)

// Pool hands out WriteResults backed by a store of spare instances.
//
// With the default pool.Cache store a Pool belongs to one goroutine: create
// one per worker and pass it down. Use a pool.Shared store to share a Pool
// between goroutines.
type Pool[C, M, A any] struct {
	store     pool.Store[*WriteResult[C, M, A]]
	newHolder holder.Factory[A]
}

// NewPool creates a result pool.
// A nil store selects a pool.Cache with the default capacity; a nil
// newHolder stores destinations eagerly.
func NewPool[C, M, A any](store pool.Store[*WriteResult[C, M, A]], newHolder holder.Factory[A]) *Pool[C, M, A] {
	if store == nil {
		store = pool.NewCache[*WriteResult[C, M, A]](pool.DefaultCapacity)
	}
	if newHolder == nil {
		newHolder = holder.Eager[A]
	}
	return &Pool[C, M, A]{
		store:     store,
		newHolder: newHolder,
	}
}

// take reuses a spare instance or allocates a new one
func (p *Pool[C, M, A]) take() *WriteResult[C, M, A] {
	r, ok := p.store.Get()
	metrics.IncAcquired(ok)
	if !ok {
		r = &WriteResult[C, M, A]{}
	} else {
		// Untracked writes after Recycle may have left data behind
		r.reset()
	}
	r.owner = p
	r.recycled = false
	return r
}

// Acquire returns a result for conn with every other field zeroed
func (p *Pool[C, M, A]) Acquire(conn C) *WriteResult[C, M, A] {
	r := p.take()
	r.conn = conn
	return r
}

// AcquireWith returns a result populated with all fields
func (p *Pool[C, M, A]) AcquireWith(conn C, message M, dst A, written int64) *WriteResult[C, M, A] {
	r := p.take()
	r.set(conn, message, dst, written)
	return r
}
