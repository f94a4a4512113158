package godisruptor

import "github.com/prometheus/client_golang/prometheus"

// options collects a Pipeline's construction-time configuration: the event
// factory, wait strategy, handlers, error policy, logger, metrics, and
// producer count.
type options[T any] struct {
	eventFactory  func() T
	waitFactory   func() WaitStrategy
	handlers      []EventHandler[T]
	errorHandler  ErrorHandler[T]
	panicOnError  bool
	logger        *Logger
	metricsReg    *prometheus.Registry
	metricsPrefix string
	producerCount int
}

// Option configures a Pipeline[T] at construction.
type Option[T any] func(*options[T])

// WithEventFactory supplies the initial value of each ring slot. Without
// it, slots start at T's zero value.
func WithEventFactory[T any](factory func() T) Option[T] {
	return func(o *options[T]) { o.eventFactory = factory }
}

// WithWaitStrategy sets the idle policy factory used to build one
// WaitStrategy per EventProcessor and one for the multi-producer
// Sequencer's reservation gating. A factory, not a shared instance, because
// BackoffWait carries per-caller backoff state that must not be mutated
// concurrently by more than one goroutine. Defaults to YieldWait, which is
// stateless and safe to share, but is still constructed fresh per caller
// for consistency.
func WithWaitStrategy[T any](factory func() WaitStrategy) Option[T] {
	return func(o *options[T]) { o.waitFactory = factory }
}

// WithHandlers registers one EventHandler per EventProcessor the Pipeline
// will spawn — one dedicated goroutine per handler.
func WithHandlers[T any](handlers ...EventHandler[T]) Option[T] {
	return func(o *options[T]) { o.handlers = append(o.handlers, handlers...) }
}

// WithErrorHandler installs the isolate-policy callback invoked when an
// EventHandler returns an error. If unset, errors are logged via
// WithLogger's Logger (or dropped silently if no logger was set) and the
// processor still advances past the failing sequence.
func WithErrorHandler[T any](fn ErrorHandler[T]) Option[T] {
	return func(o *options[T]) { o.errorHandler = fn }
}

// WithPanicOnHandlerError switches the handler-error policy from isolate
// to propagate: a handler error terminates the owning EventProcessor,
// recording the failing sequence in EventProcessor.Err() instead of
// advancing past it.
func WithPanicOnHandlerError[T any]() Option[T] {
	return func(o *options[T]) { o.panicOnError = true }
}

// WithLogger attaches structured logging to pipeline lifecycle events and
// isolated handler errors. The pipeline is silent by default.
func WithLogger[T any](l *Logger) Option[T] {
	return func(o *options[T]) { o.logger = l }
}

// WithMetrics registers a set of Prometheus collectors (cursor, per-
// consumer lag, processed count, handler-error count) against reg, named
// with prefix. Metrics are refreshed on a background timer while the
// pipeline is running.
func WithMetrics[T any](reg *prometheus.Registry, prefix string) Option[T] {
	return func(o *options[T]) {
		o.metricsReg = reg
		o.metricsPrefix = prefix
	}
}

// WithProducerCount selects the Sequencer implementation. count == 1 (the
// default) uses the plain single-producer Sequencer with no runtime
// enforcement of the single-writer precondition. count > 1 switches to the
// bounded multi-producer Sequencer with wrap-around gating; every Producer
// obtained from the resulting Pipeline is then safe to call concurrently.
func WithProducerCount[T any](count int) Option[T] {
	return func(o *options[T]) { o.producerCount = count }
}
