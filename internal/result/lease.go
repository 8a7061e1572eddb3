package result

// Lease is a token for one acquisition of a WriteResult. It stops being valid
// once the result is recycled, whether or not tracking is enabled.
type Lease[C, M, A any] struct {
	r   *WriteResult[C, M, A]
	gen uint64
}

// Lease returns a token bound to the current acquisition of r
func (r *WriteResult[C, M, A]) Lease() Lease[C, M, A] {
	return Lease[C, M, A]{r: r, gen: r.gen}
}

// Valid reports whether the acquisition the lease was taken from is still live
func (l Lease[C, M, A]) Valid() bool {
	return l.r != nil && !l.r.recycled && l.r.gen == l.gen
}

// Result returns the leased result, or ErrLeaseExpired
func (l Lease[C, M, A]) Result() (*WriteResult[C, M, A], error) {
	if !l.Valid() {
		return nil, ErrLeaseExpired
	}
	return l.r, nil
}
