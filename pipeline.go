package godisruptor

import (
	"sync"
	"sync/atomic"
)

// PipelineState is the pipeline's lifecycle: Constructed -> Running ->
// Halted, with no restart.
type PipelineState int32

const (
	PipelineConstructed PipelineState = iota
	PipelineRunning
	PipelineHalted
)

// ProcessorStats is one EventProcessor's contribution to a PipelineStats
// snapshot.
type ProcessorStats struct {
	ID            int
	Sequence      int64
	Processed     int64
	HandlerErrors int64
}

// PipelineStats is an observational snapshot of a Pipeline's progress.
type PipelineStats struct {
	Cursor     int64
	Processors []ProcessorStats
}

// Pipeline wires one Sequencer, one RingBuffer and N EventProcessors
// together, owns the consumer goroutines, and coordinates Start/Halt.
// Producers are not owned by the Pipeline but are always obtained via
// NewProducer so they share the Pipeline's RingBuffer and Sequencer.
type Pipeline[T any] struct {
	ring       *RingBuffer[T]
	seqr       Sequencer
	processors []*EventProcessor[T]
	wg         sync.WaitGroup
	state      atomic.Int32
	logger     *Logger
	metrics    *pipelineMetrics
}

// New validates capacity and the supplied options, then constructs (but
// does not start) a Pipeline. Construction failures are returned
// synchronously — the pipeline is never partially built.
func New[T any](capacity int, opts ...Option[T]) (*Pipeline[T], error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, ErrInvalidCapacity
	}

	o := options[T]{
		waitFactory:   func() WaitStrategy { return YieldWait{} },
		producerCount: 1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.handlers) == 0 {
		return nil, ErrNoHandlers
	}
	if o.logger == nil {
		o.logger = newDiscardLogger()
	}

	ring := newRingBuffer(capacity, o.eventFactory)

	var seqr Sequencer
	if o.producerCount > 1 {
		seqr = newMultiProducerSequencer(capacity, o.waitFactory())
	} else {
		seqr = newSingleProducerSequencer(capacity)
	}

	processors := make([]*EventProcessor[T], len(o.handlers))
	gating := make([]*Sequence, len(o.handlers))
	for i, h := range o.handlers {
		processors[i] = newEventProcessor(i, ring, seqr, o.waitFactory(), h, o.errorHandler, o.panicOnError, o.logger)
		gating[i] = processors[i].gating
	}
	seqr.addGatingSequences(gating...)

	p := &Pipeline[T]{
		ring:       ring,
		seqr:       seqr,
		processors: processors,
		logger:     o.logger,
	}
	p.state.Store(int32(PipelineConstructed))

	if o.metricsReg != nil {
		prefix := o.metricsPrefix
		if prefix == "" {
			prefix = "godisruptor"
		}
		p.metrics = newPipelineMetrics(o.metricsReg, prefix)
	}

	return p, nil
}

// Start spawns one worker goroutine per EventProcessor. Goroutines are
// retained (via an internal sync.WaitGroup) and joined by Halt — never
// detached. A second call to Start returns ErrAlreadyStarted; a pipeline
// may not be restarted after Halt either.
func (p *Pipeline[T]) Start() error {
	if !p.state.CompareAndSwap(int32(PipelineConstructed), int32(PipelineRunning)) {
		return ErrAlreadyStarted
	}
	for _, proc := range p.processors {
		p.wg.Add(1)
		go func(pr *EventProcessor[T]) {
			defer p.wg.Done()
			pr.run()
		}(proc)
	}
	if p.metrics != nil {
		go p.metrics.run(p)
	}
	p.logger.Info("pipeline started", "capacity", p.ring.Capacity(), "processors", len(p.processors))
	return nil
}

// Halt signals every EventProcessor to stop, then joins every worker
// goroutine before returning. Called on a pipeline that was never started,
// or a second time on one already halted, it is a no-op.
func (p *Pipeline[T]) Halt() error {
	if !p.state.CompareAndSwap(int32(PipelineRunning), int32(PipelineHalted)) {
		return nil
	}
	for _, proc := range p.processors {
		proc.Halt()
	}
	p.wg.Wait()
	if p.metrics != nil {
		p.metrics.close()
	}
	p.logger.Info("pipeline halted")
	return nil
}

// Cursor returns the highest sequence number currently published.
func (p *Pipeline[T]) Cursor() int64 { return p.seqr.Cursor() }

// State reports the pipeline's position in the Constructed/Running/Halted
// machine.
func (p *Pipeline[T]) State() PipelineState { return PipelineState(p.state.Load()) }

// NewProducer returns a Producer sharing this pipeline's RingBuffer and
// Sequencer. Callers may create as many as WithProducerCount's setting
// supports concurrently.
func (p *Pipeline[T]) NewProducer() *Producer[T] {
	return newProducer(p.ring, p.seqr)
}

// Processors exposes the pipeline's EventProcessors for inspection (e.g.
// per-consumer Sequence()) in tests and monitoring code.
func (p *Pipeline[T]) Processors() []*EventProcessor[T] {
	out := make([]*EventProcessor[T], len(p.processors))
	copy(out, p.processors)
	return out
}

// Stats returns an observational snapshot of the pipeline's progress.
func (p *Pipeline[T]) Stats() PipelineStats { return p.snapshot() }

func (p *Pipeline[T]) snapshot() PipelineStats {
	stats := PipelineStats{Cursor: p.seqr.Cursor()}
	for _, proc := range p.processors {
		stats.Processors = append(stats.Processors, ProcessorStats{
			ID:            proc.id,
			Sequence:      proc.Sequence(),
			Processed:     proc.processed.Load(),
			HandlerErrors: proc.errCount.Load(),
		})
	}
	return stats
}
