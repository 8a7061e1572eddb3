package result

import (
	"fmt"

	"github.com/SkynetNext/writeresult/internal/holder"
	"github.com/SkynetNext/writeresult/internal/logger"
	"github.com/SkynetNext/writeresult/internal/metrics"
	"go.uber.org/zap"
)

// Result is the outcome of an I/O operation on a connection
type Result[C any] interface {
	Connection() (C, error)
}

// WriteResult describes one completed write: the connection that performed it,
// the message written, the destination address and the number of bytes written.
//
// Fields are valid between acquisition and Recycle. A WriteResult belongs to
// the goroutine that acquired it; use Copy to hand a snapshot to another one.
type WriteResult[C, M, A any] struct {
	conn    C
	message M
	dst     holder.Holder[A] // nil for connection-oriented transports
	written int64

	recycled bool
	gen      uint64 // bumped on every recycle, see Lease

	owner *Pool[C, M, A] // nil when constructed directly
}

// New creates a result outside of any pool. Recycle only clears it.
func New[C, M, A any](conn C, message M, dst A, written int64) *WriteResult[C, M, A] {
	r := &WriteResult[C, M, A]{}
	r.set(conn, message, dst, written)
	return r
}

// checkRecycled fails the operation if the result is recycled and tracking is on
func (r *WriteResult[C, M, A]) checkRecycled(op string) error {
	if r.recycled && tracking.Load() {
		metrics.IncUseAfterRecycle(op)
		logger.L.Debug("Write result used after recycle", zap.String("op", op))
		return fmt.Errorf("%s: %w", op, ErrRecycled)
	}
	return nil
}

// Connection returns the connection the message was written to
func (r *WriteResult[C, M, A]) Connection() (C, error) {
	if err := r.checkRecycled("connection"); err != nil {
		var zero C
		return zero, err
	}
	return r.conn, nil
}

// Message returns the message that was written
func (r *WriteResult[C, M, A]) Message() (M, error) {
	if err := r.checkRecycled("message"); err != nil {
		var zero M
		return zero, err
	}
	return r.message, nil
}

// SetMessage sets the message that was written
func (r *WriteResult[C, M, A]) SetMessage(message M) error {
	if err := r.checkRecycled("set_message"); err != nil {
		return err
	}
	r.message = message
	return nil
}

// Destination returns the destination address, resolving it if it was deferred.
// It returns the zero address when no destination is set.
func (r *WriteResult[C, M, A]) Destination() (A, error) {
	var zero A
	if err := r.checkRecycled("destination"); err != nil {
		return zero, err
	}
	if r.dst == nil {
		return zero, nil
	}
	return r.dst.Get(), nil
}

// DestinationHolder returns the holder of the destination address, or nil
func (r *WriteResult[C, M, A]) DestinationHolder() (holder.Holder[A], error) {
	if err := r.checkRecycled("destination_holder"); err != nil {
		return nil, err
	}
	return r.dst, nil
}

// SetDestination wraps dst with the owner pool's holder factory and stores it
func (r *WriteResult[C, M, A]) SetDestination(dst A) error {
	if err := r.checkRecycled("set_destination"); err != nil {
		return err
	}
	r.dst = r.newHolder(dst)
	return nil
}

// SetDestinationHolder stores h as the destination. A nil h clears the destination.
func (r *WriteResult[C, M, A]) SetDestinationHolder(h holder.Holder[A]) error {
	if err := r.checkRecycled("set_destination_holder"); err != nil {
		return err
	}
	r.dst = h
	return nil
}

// BytesWritten returns the number of bytes written.
// Negative values are stored and returned as given.
func (r *WriteResult[C, M, A]) BytesWritten() (int64, error) {
	if err := r.checkRecycled("bytes_written"); err != nil {
		return 0, err
	}
	return r.written, nil
}

// SetBytesWritten sets the number of bytes written
func (r *WriteResult[C, M, A]) SetBytesWritten(n int64) error {
	if err := r.checkRecycled("set_bytes_written"); err != nil {
		return err
	}
	r.written = n
	return nil
}

// Set assigns all fields at once
func (r *WriteResult[C, M, A]) Set(conn C, message M, dst A, written int64) error {
	if err := r.checkRecycled("set"); err != nil {
		return err
	}
	r.set(conn, message, dst, written)
	return nil
}

func (r *WriteResult[C, M, A]) set(conn C, message M, dst A, written int64) {
	r.conn = conn
	r.message = message
	r.dst = r.newHolder(dst)
	r.written = written
}

// newHolder wraps dst using the owner's holder factory, eagerly when unowned
func (r *WriteResult[C, M, A]) newHolder(dst A) holder.Holder[A] {
	if r.owner != nil {
		return r.owner.newHolder(dst)
	}
	return holder.NewStatic(dst)
}

// Copy returns an independent snapshot of the result. The copy comes from the
// same pool as r and keeps its values after r is recycled. A deferred
// destination is resolved by the copy.
func (r *WriteResult[C, M, A]) Copy() (*WriteResult[C, M, A], error) {
	if err := r.checkRecycled("copy"); err != nil {
		return nil, err
	}

	var dst holder.Holder[A]
	if r.dst != nil {
		dst = holder.NewStatic(r.dst.Get())
	}

	var c *WriteResult[C, M, A]
	if r.owner != nil {
		c = r.owner.take()
	} else {
		c = &WriteResult[C, M, A]{}
	}
	c.conn = r.conn
	c.message = r.message
	c.dst = dst
	c.written = r.written

	metrics.ResultsCopied.Inc()
	return c, nil
}

func (r *WriteResult[C, M, A]) reset() {
	var (
		zeroC C
		zeroM M
	)
	r.conn = zeroC
	r.message = zeroM
	r.dst = nil
	r.written = 0
}

// Recycle clears the result and returns it to the pool it was acquired from.
// Calling Recycle again before the next acquisition only clears it again.
// Must not race with any reader.
func (r *WriteResult[C, M, A]) Recycle() {
	r.reset()
	if r.recycled {
		return
	}
	r.recycled = true
	r.gen++

	metrics.ResultsRecycled.Inc()
	if r.owner != nil && !r.owner.store.Put(r) {
		metrics.PoolDropped.Inc()
	}
}

// IsRecycled reports whether the result is currently recycled
func (r *WriteResult[C, M, A]) IsRecycled() bool {
	return r.recycled
}
