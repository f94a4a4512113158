package godisruptor

import (
	"math"
	"math/bits"
)

// Sequencer is the single source of truth for what has been published. It
// holds the atomic cursor: the highest sequence number visible to
// consumers. Next, Publish and Cursor never return an error; failure is
// expressed only through blocking on the WaitStrategy.
type Sequencer interface {
	// Next reserves and returns the next sequence number to publish. In
	// the single-producer implementation this never blocks. In the
	// multi-producer implementation it may idle on its WaitStrategy while
	// the reservation would lap a gating (consumer) sequence.
	Next() int64
	// Publish makes sequence visible to consumers with release ordering.
	Publish(sequence int64)
	// Cursor returns, with acquire ordering, the highest published
	// sequence. -1 means nothing has ever been published.
	Cursor() int64
	// addGatingSequences registers the sequences (typically one per
	// EventProcessor) the Sequencer must not lap when reserving new
	// slots. Called once by the Pipeline at construction.
	addGatingSequences(gating ...*Sequence)
}

// singleProducerSequencer is correct only when exactly one goroutine ever
// calls Next/Publish; that precondition is not enforced at runtime. A
// plain, non-atomic reservation counter and a single atomically published
// cursor.
type singleProducerSequencer struct {
	capacity    int64
	reservation int64 // owned by the single producer goroutine; not atomic
	cursor      *Sequence
}

func newSingleProducerSequencer(capacity int) *singleProducerSequencer {
	return &singleProducerSequencer{
		capacity:    int64(capacity),
		reservation: unpublished,
		cursor:      NewSequence(),
	}
}

func (s *singleProducerSequencer) Next() int64 {
	s.reservation++
	return s.reservation
}

func (s *singleProducerSequencer) Publish(sequence int64) {
	s.cursor.Set(sequence)
}

func (s *singleProducerSequencer) Cursor() int64 {
	return s.cursor.Get()
}

func (s *singleProducerSequencer) addGatingSequences(...*Sequence) {
	// The single-producer variant does not gate on consumers: the caller
	// is responsible for keeping producer rate at or below the slowest
	// consumer's rate.
}

// multiProducerSequencer supports concurrent producers: reservation and
// publication use two distinct counters, and Publish only advances the
// cursor through a contiguous run of already-published slots, so a slow
// reservation never exposes an unwritten slot to consumers. Every
// reservation additionally stalls (via wait) while it would lap the
// slowest gating sequence.
type multiProducerSequencer struct {
	capacity    int64
	mask        int64
	indexShift  uint
	reservation *Sequence
	cursor      *Sequence
	available   []Sequence // per-slot generation marker; -1 means never published
	gating      []*Sequence
	wait        WaitStrategy
}

func newMultiProducerSequencer(capacity int, wait WaitStrategy) *multiProducerSequencer {
	available := make([]Sequence, capacity)
	for i := range available {
		available[i].value.Store(unpublished)
	}
	return &multiProducerSequencer{
		capacity:    int64(capacity),
		mask:        int64(capacity) - 1,
		indexShift:  uint(bits.Len64(uint64(capacity) - 1)),
		reservation: NewSequence(),
		cursor:      NewSequence(),
		available:   available,
		wait:        wait,
	}
}

func (s *multiProducerSequencer) addGatingSequences(gating ...*Sequence) {
	s.gating = append(s.gating, gating...)
}

func (s *multiProducerSequencer) minGatingSequence() int64 {
	if len(s.gating) == 0 {
		return s.cursor.Get()
	}
	min := int64(math.MaxInt64)
	for _, g := range s.gating {
		if v := g.Get(); v < min {
			min = v
		}
	}
	return min
}

func (s *multiProducerSequencer) Next() int64 {
	for {
		current := s.reservation.Get()
		next := current + 1
		wrapPoint := next - s.capacity
		if wrapPoint > s.minGatingSequence() {
			s.wait.Wait()
			continue
		}
		if s.reservation.CompareAndSwap(current, next) {
			return next
		}
	}
}

func (s *multiProducerSequencer) index(sequence int64) int64 {
	return sequence & s.mask
}

func (s *multiProducerSequencer) generation(sequence int64) int64 {
	return sequence >> s.indexShift
}

func (s *multiProducerSequencer) isAvailable(sequence int64) bool {
	return s.available[s.index(sequence)].Get() == s.generation(sequence)
}

// Publish marks sequence's slot available, then advances the published
// cursor through the longest contiguous run of available slots starting
// just past the current cursor. A gap (a reservation that has not yet
// called Publish) stops the scan; whichever producer eventually fills the
// gap is the one that advances the cursor past it.
func (s *multiProducerSequencer) Publish(sequence int64) {
	s.available[s.index(sequence)].Set(s.generation(sequence))

	for {
		current := s.cursor.Get()
		if sequence <= current {
			return
		}
		highest := current + 1
		for s.isAvailable(highest) {
			highest++
		}
		highest--
		if highest < current+1 {
			return
		}
		if s.cursor.CompareAndSwap(current, highest) {
			return
		}
	}
}

func (s *multiProducerSequencer) Cursor() int64 {
	return s.cursor.Get()
}
