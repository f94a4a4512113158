package godisruptor

import (
	"runtime"
	"time"

	"github.com/valyala/fastrand"
)

// WaitStrategy is the policy an EventProcessor (or, under the
// multi-producer Sequencer, a Producer) uses to idle when it has caught up
// to the cursor. Wait must not return until either progress may have
// occurred or a bounded amount of time has elapsed; it must never block on
// anything but time.
type WaitStrategy interface {
	Wait()
}

// BusySpinWait never yields. Lowest latency, highest CPU cost; appropriate
// when a core can be dedicated to the consumer.
type BusySpinWait struct{}

func (BusySpinWait) Wait() {}

// YieldWait surrenders the current timeslice to the scheduler.
type YieldWait struct{}

func (YieldWait) Wait() { runtime.Gosched() }

// BackoffWait sleeps for a bounded, doubling duration, resetting after
// every call that follows an observed reset (see Reset).
//
// Because many idle EventProcessors can be woken by the same publish, each
// Wait call adds jitter so they don't all re-check the cursor in lockstep.
type BackoffWait struct {
	MinDelay time.Duration
	MaxDelay time.Duration

	current time.Duration
}

// NewBackoffWait validates min <= max and both positive, returning
// ErrInvalidBackoff otherwise.
func NewBackoffWait(min, max time.Duration) (*BackoffWait, error) {
	if min <= 0 || max <= 0 || min > max {
		return nil, ErrInvalidBackoff
	}
	return &BackoffWait{MinDelay: min, MaxDelay: max}, nil
}

func (b *BackoffWait) Wait() {
	if b.current < b.MinDelay {
		b.current = b.MinDelay
	}
	jitter := time.Duration(fastrand.Uint32n(uint32(b.current/4 + 1)))
	time.Sleep(b.current + jitter)
	b.current *= 2
	if b.current > b.MaxDelay {
		b.current = b.MaxDelay
	}
}

// Reset returns the backoff to MinDelay. Call it once work is observed
// again after an idle stretch — BackoffWait itself has no way to know a
// publish happened, so the caller (an EventProcessor) resets it at the top
// of every loop iteration that finds new work.
func (b *BackoffWait) Reset() {
	b.current = b.MinDelay
}
