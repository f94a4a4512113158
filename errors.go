package godisruptor

import (
	"errors"
	"strconv"
)

// Construction-time (configuration) errors, returned synchronously:
// ErrInvalidCapacity and ErrNoHandlers by New (the pipeline is never
// created when one of these is returned), ErrInvalidBackoff by
// NewBackoffWait.
var (
	ErrInvalidCapacity = errors.New("godisruptor: capacity must be a positive power of two")
	ErrNoHandlers      = errors.New("godisruptor: at least one event handler is required")
	ErrInvalidBackoff  = errors.New("godisruptor: backoff min delay must be positive and not exceed max delay")
)

// Lifecycle errors. Pipeline.Start returns ErrAlreadyStarted synchronously;
// Pipeline.Halt on a pipeline that was never started is a no-op returning
// nil, so no function in this package returns ErrNotStarted.
var (
	ErrAlreadyStarted = errors.New("godisruptor: pipeline already started")
	ErrNotStarted     = errors.New("godisruptor: pipeline has not been started")
)

// HandlerError wraps a failure raised by a user-supplied EventHandler,
// capturing the failing sequence before the configured ErrorHandler (or,
// under WithPanicOnHandlerError, a terminal halt) sees it.
type HandlerError struct {
	Sequence int64
	Err      error
}

func (e *HandlerError) Error() string {
	return "godisruptor: handler error at sequence " + strconv.FormatInt(e.Sequence, 10) + ": " + e.Err.Error()
}

func (e *HandlerError) Unwrap() error { return e.Err }
