package godisruptor

import (
	"fmt"
	"sync/atomic"
)

// EventHandler processes one event read from the ring. endOfBatch reports
// whether sequence was the last one available in the current drain pass
// (sequence == cursor at the moment it was read), letting a handler defer
// expensive work such as flushing until the batch is fully drained.
type EventHandler[T any] func(event *T, sequence int64, endOfBatch bool) error

// ErrorHandler is invoked when an EventHandler returns a non-nil error and
// the processor's policy is "isolate" (the default — see
// WithPanicOnHandlerError for the alternative). The processor always
// advances past sequence after ErrorHandler returns.
type ErrorHandler[T any] func(event *T, sequence int64, err error)

// processorState is the processor's Constructed -> Running -> Halted
// machine; only Running -> Halted is permitted post-start, and a processor
// may not be restarted.
type processorState int32

const (
	processorConstructed processorState = iota
	processorRunning
	processorHalted
)

// EventProcessor is a consumer worker: it owns a private read cursor
// (nextSequence), drains slots made visible by the Sequencer in strict
// ascending order, and idles on its WaitStrategy when caught up. The halt
// flag is an atomic bool checked after each drain pass, and the
// worker goroutine is joined by the owning Pipeline rather than detached.
type EventProcessor[T any] struct {
	id      int
	ring    *RingBuffer[T]
	seqr    Sequencer
	wait    WaitStrategy
	handler EventHandler[T]
	errFn   ErrorHandler[T]
	panicOn bool
	logger  *Logger

	// gating is this processor's published progress: the highest fully
	// consumed sequence. It starts at -1 (nothing consumed) and is the
	// value a multiProducerSequencer reads to compute wrap-around gating.
	gating *Sequence

	halted atomic.Bool
	state  atomic.Int32
	done   chan struct{}

	processed atomic.Int64
	errCount  atomic.Int64
	err       error // set at most once, before done is closed
}

func newEventProcessor[T any](id int, ring *RingBuffer[T], seqr Sequencer, wait WaitStrategy, handler EventHandler[T], errFn ErrorHandler[T], panicOn bool, logger *Logger) *EventProcessor[T] {
	return &EventProcessor[T]{
		id:      id,
		ring:    ring,
		seqr:    seqr,
		wait:    wait,
		handler: handler,
		errFn:   errFn,
		panicOn: panicOn,
		logger:  logger,
		gating:  NewSequence(),
		done:    make(chan struct{}),
	}
}

// Sequence exposes the processor's gating sequence for Pipeline wiring and
// for tests that assert on per-consumer progress.
func (p *EventProcessor[T]) Sequence() int64 { return p.gating.Get() }

// Halt requests cooperative shutdown: the flag is observed in each outer
// loop iteration, after any already-published work has been drained. Halt does not block; Pipeline.Halt joins the worker goroutine
// separately.
func (p *EventProcessor[T]) Halt() { p.halted.Store(true) }

// State reports the processor's position in the Constructed/Running/Halted
// machine.
func (p *EventProcessor[T]) State() processorState { return processorState(p.state.Load()) }

// Err returns the terminal error recorded under the propagate
// (WithPanicOnHandlerError) policy, or nil. It is only meaningful after
// the processor's goroutine has exited (i.e. after Pipeline.Halt returns).
func (p *EventProcessor[T]) Err() error { return p.err }

// run is the worker goroutine body. It returns once Halt has been called
// and every already-published event has been drained, or earlier when a
// handler error terminates the processor under WithPanicOnHandlerError.
func (p *EventProcessor[T]) run() {
	p.state.Store(int32(processorRunning))
	defer func() {
		if r := recover(); r != nil {
			if he, ok := r.(*HandlerError); ok {
				p.err = he
			} else {
				p.err = fmt.Errorf("godisruptor: event processor %d terminated: %v", p.id, r)
			}
			if p.logger != nil {
				p.logger.Error("event processor terminated", "processor", p.id, "err", p.err)
			}
		}
		p.state.Store(int32(processorHalted))
		close(p.done)
	}()

	var next int64
	var madeProgress bool
	for {
		next, madeProgress = p.drain(next, p.seqr.Cursor())
		if p.halted.Load() {
			// A producer may have published (and set the halt flag) after
			// the cursor read above but before this check. Re-read the
			// cursor once more so those final events are drained before
			// the goroutine exits, rather than silently dropped.
			next, _ = p.drain(next, p.seqr.Cursor())
			return
		}
		if madeProgress {
			if r, ok := p.wait.(interface{ Reset() }); ok {
				r.Reset()
			}
		}
		p.wait.Wait()
	}
}

// drain processes every sequence in [next, cursor], returning the first
// unprocessed sequence after the run and whether any event was processed.
func (p *EventProcessor[T]) drain(next, cursor int64) (int64, bool) {
	madeProgress := false
	for next <= cursor {
		event := p.ring.slot(next)
		endOfBatch := next == cursor
		if err := p.handler(event, next, endOfBatch); err != nil {
			p.onHandlerError(event, next, err)
		}
		p.processed.Add(1)
		next++
		p.gating.Set(next - 1)
		madeProgress = true
	}
	return next, madeProgress
}

func (p *EventProcessor[T]) onHandlerError(event *T, sequence int64, err error) {
	if p.panicOn {
		panic(&HandlerError{Sequence: sequence, Err: err})
	}
	p.errCount.Add(1)
	if p.errFn != nil {
		p.errFn(event, sequence, err)
		return
	}
	if p.logger != nil {
		p.logger.Error("event handler failed", "sequence", sequence, "err", err)
	}
}
