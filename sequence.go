package godisruptor

import "sync/atomic"

// cacheLinePad is sized to push a trailing atomic field onto its own cache
// line, avoiding false sharing with neighboring fields.
type cacheLinePad [64 - 8]byte

// Sequence is a single padded, atomically accessed int64. It backs the
// Sequencer's published cursor, a producer's reservation counter, and each
// EventProcessor's gating position (the value the Sequencer reads to
// determine the slowest consumer for wrap-around gating).
type Sequence struct {
	value atomic.Int64
	_     cacheLinePad
}

// unpublished is the value a Sequence starts at: "nothing has happened
// yet". Used both for the cursor (nothing published) and for a consumer's
// gating sequence before it has read anything.
const unpublished int64 = -1

// NewSequence creates a Sequence initialized to unpublished (-1).
func NewSequence() *Sequence {
	s := &Sequence{}
	s.value.Store(unpublished)
	return s
}

// Get performs an acquire load, pairing with the release store any
// producer used to publish.
func (s *Sequence) Get() int64 { return s.value.Load() }

// Set performs a release store.
func (s *Sequence) Set(v int64) { s.value.Store(v) }

// CompareAndSwap performs a CAS on the underlying value, used by the
// multi-producer reservation counter.
func (s *Sequence) CompareAndSwap(old, new int64) bool {
	return s.value.CompareAndSwap(old, new)
}

// Add atomically adds delta and returns the new value.
func (s *Sequence) Add(delta int64) int64 {
	return s.value.Add(delta)
}
