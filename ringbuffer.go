package godisruptor

// RingBuffer is a fixed-length, preallocated array of event slots indexed
// by sequence number modulo capacity. It carries no concurrency policy of
// its own — visibility of a slot's contents is entirely the Sequencer's
// job (see sequencer.go). A slot exists for the lifetime of the ring;
// events are mutated in place and are never allocated or freed per
// message.
//
// Capacity must be a power of two, checked once at construction so that
// slot() can compute the index with a mask instead of a modulo.
type RingBuffer[T any] struct {
	mask uint64
	buf  []T
}

// newRingBuffer allocates a ring of the given capacity, filling every slot
// via factory (or the zero value of T if factory is nil). capacity has
// already been validated as a positive power of two by the caller.
func newRingBuffer[T any](capacity int, factory func() T) *RingBuffer[T] {
	buf := make([]T, capacity)
	if factory != nil {
		for i := range buf {
			buf[i] = factory()
		}
	}
	return &RingBuffer[T]{
		mask: uint64(capacity) - 1,
		buf:  buf,
	}
}

// slot returns the slot addressed by sequence. It is a total function over
// any non-negative sequence; there is no bounds check because the mask
// (capacity - 1) always folds the sequence into range.
func (r *RingBuffer[T]) slot(sequence int64) *T {
	return &r.buf[uint64(sequence)&r.mask]
}

// Capacity returns the fixed number of slots in the ring.
func (r *RingBuffer[T]) Capacity() int {
	return int(r.mask) + 1
}
