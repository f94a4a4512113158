// Package godisruptor is an in-process, single-writer event pipeline built
// around a preallocated ring buffer, an atomic publication cursor, and one
// or more consumers that track their own read progress.
//
// A Pipeline owns one RingBuffer and one Sequencer. A Producer reserves a
// sequence number from the Sequencer, writes the payload into the slot at
// that sequence, and publishes it; every EventProcessor watches the cursor
// and drains newly published slots in strict order, using a WaitStrategy to
// idle when it has caught up.
//
// The ring's capacity is fixed at construction and must be a power of two.
// There is no persistence, no dynamic resizing, and (for the default
// single-producer Sequencer) no protection against a producer overrunning a
// slow consumer — pass WithProducerCount(n) with n > 1 to opt into the
// bounded, wrap-around-gated multi-producer Sequencer instead.
package godisruptor
