package godisruptor

// Producer reserves the next sequence via the Sequencer, writes the event
// payload into the reserved slot, then publishes the sequence. Whether
// reservation may block on slow consumers is entirely a property of the
// Sequencer the Producer was built against: singleProducerSequencer never
// blocks (and never checks); multiProducerSequencer blocks via its
// WaitStrategy to avoid lapping a slow consumer.
type Producer[T any] struct {
	ring *RingBuffer[T]
	seqr Sequencer
}

func newProducer[T any](ring *RingBuffer[T], seqr Sequencer) *Producer[T] {
	return &Producer[T]{ring: ring, seqr: seqr}
}

// Publish reserves a sequence, copies payload into that slot, and
// publishes it. Returns the published sequence number.
func (p *Producer[T]) Publish(payload T) int64 {
	seq := p.seqr.Next()
	*p.ring.slot(seq) = payload
	p.seqr.Publish(seq)
	return seq
}

// PublishWith reserves a sequence and hands the caller a pointer directly
// into the ring slot to write into, avoiding an extra copy for large
// events. write must not retain the pointer past its call — the slot is
// reused once the ring wraps around.
func (p *Producer[T]) PublishWith(write func(event *T)) int64 {
	seq := p.seqr.Next()
	write(p.ring.slot(seq))
	p.seqr.Publish(seq)
	return seq
}
