package godisruptor

import "testing"

func TestProducerPublish(t *testing.T) {
	const capacity = 8
	ring := newRingBuffer[int](capacity, nil)
	seqr := newSingleProducerSequencer(capacity)
	p := newProducer(ring, seqr)

	for i := 0; i < 5; i++ {
		seq := p.Publish(i * 10)
		if seq != int64(i) {
			t.Fatalf("Publish() sequence = %d, want %d", seq, i)
		}
		if got := *ring.slot(seq); got != i*10 {
			t.Fatalf("slot(%d) = %d, want %d", seq, got, i*10)
		}
	}
	if seqr.Cursor() != 4 {
		t.Fatalf("Cursor() = %d, want 4", seqr.Cursor())
	}
}

func TestProducerPublishWithAvoidsCopy(t *testing.T) {
	type payload struct {
		id   int
		data [16]byte
	}
	const capacity = 8
	ring := newRingBuffer[payload](capacity, nil)
	seqr := newSingleProducerSequencer(capacity)
	p := newProducer(ring, seqr)

	seq := p.PublishWith(func(event *payload) {
		event.id = 7
		event.data[0] = 0xFF
	})
	got := ring.slot(seq)
	if got.id != 7 || got.data[0] != 0xFF {
		t.Fatalf("PublishWith did not write through to the ring slot: %+v", got)
	}
}

func TestProducerPublishWithMultiProducerSequencer(t *testing.T) {
	const capacity = 8
	ring := newRingBuffer[int](capacity, nil)
	seqr := newMultiProducerSequencer(capacity, BusySpinWait{})
	p := newProducer(ring, seqr)

	seqs := make(map[int64]bool)
	for i := 0; i < capacity; i++ {
		seq := p.Publish(i)
		seqs[seq] = true
	}
	if len(seqs) != capacity {
		t.Fatalf("got %d distinct sequences, want %d", len(seqs), capacity)
	}
	if seqr.Cursor() != int64(capacity-1) {
		t.Fatalf("Cursor() = %d, want %d", seqr.Cursor(), capacity-1)
	}
}
