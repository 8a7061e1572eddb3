package holder

// Holder wraps a value that is either known up front or produced on first access
type Holder[T any] interface {
	// Get returns the held value, resolving it if needed
	Get() T

	// IsResolved reports whether the value is available without running a producer
	IsResolved() bool
}

// Factory builds the holder used to store a raw value
type Factory[T any] func(v T) Holder[T]

// Static holds an eagerly supplied value
type Static[T any] struct {
	value T
}

// NewStatic creates a holder for an already known value
func NewStatic[T any](v T) *Static[T] {
	return &Static[T]{value: v}
}

// Get returns the held value
func (s *Static[T]) Get() T {
	return s.value
}

// IsResolved always returns true
func (s *Static[T]) IsResolved() bool {
	return true
}

// Lazy defers computing its value until the first Get.
// Not safe for concurrent use.
type Lazy[T any] struct {
	produce  func() T
	value    T
	resolved bool
}

// NewLazy creates a holder whose value is produced by fn on first access
func NewLazy[T any](fn func() T) *Lazy[T] {
	return &Lazy[T]{produce: fn}
}

// Get resolves the value once and returns the memoized result afterwards
func (l *Lazy[T]) Get() T {
	if !l.resolved {
		if l.produce != nil {
			l.value = l.produce()
		}
		l.produce = nil
		l.resolved = true
	}
	return l.value
}

// IsResolved reports whether the producer already ran
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved
}

// Eager is the default Factory: it wraps v in a Static holder
func Eager[T any](v T) Holder[T] {
	return NewStatic(v)
}

// Deferred returns a Factory that postpones resolve(v) until the holder is read.
// Used when the raw value still needs work (e.g. name resolution) before use.
func Deferred[T any](resolve func(T) T) Factory[T] {
	return func(v T) Holder[T] {
		return NewLazy(func() T {
			return resolve(v)
		})
	}
}
