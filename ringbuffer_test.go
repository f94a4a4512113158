package godisruptor

import "testing"

func TestRingBufferSlotIndexing(t *testing.T) {
	const capacity = 4
	r := newRingBuffer[int](capacity, nil)

	for seq := int64(0); seq < 16; seq++ {
		*r.slot(seq) = int(seq)
	}

	// Every residue class mod capacity must have been exercised and the
	// slot must hold the most recent writer's value (wrap-around reuse).
	for residue := int64(0); residue < capacity; residue++ {
		last := int64(12) + residue // last sequence with this residue in [0,16)
		got := *r.slot(residue)
		if int64(got) != last {
			t.Fatalf("slot(%d) = %d, want %d (last writer for this residue)", residue, got, last)
		}
	}
}

func TestRingBufferEventFactory(t *testing.T) {
	type event struct{ tag string }
	r := newRingBuffer(8, func() event { return event{tag: "init"} })

	for i := 0; i < r.Capacity(); i++ {
		if r.slot(int64(i)).tag != "init" {
			t.Fatalf("slot %d not initialized by factory", i)
		}
	}
}

func TestRingBufferCapacity(t *testing.T) {
	r := newRingBuffer[int](1024, nil)
	if r.Capacity() != 1024 {
		t.Fatalf("Capacity() = %d, want 1024", r.Capacity())
	}
}

func TestRingBufferMaskNotOffByOne(t *testing.T) {
	// Masking by capacity instead of capacity-1 would alias nearly every
	// sequence to slot 0. Consecutive sequences must land on distinct
	// slots until capacity is exceeded.
	const capacity = 8
	r := newRingBuffer[int](capacity, nil)
	seen := make(map[int]bool)
	for seq := int64(0); seq < capacity; seq++ {
		idx := int(uint64(seq) & r.mask)
		if seen[idx] {
			t.Fatalf("sequence %d mapped to already-used slot %d", seq, idx)
		}
		seen[idx] = true
	}
	if len(seen) != capacity {
		t.Fatalf("expected %d distinct slots, got %d", capacity, len(seen))
	}
}
