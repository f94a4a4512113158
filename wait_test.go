package godisruptor

import (
	"testing"
	"time"
)

func TestBusySpinWaitReturnsImmediately(t *testing.T) {
	start := time.Now()
	BusySpinWait{}.Wait()
	if elapsed := time.Since(start); elapsed > time.Millisecond {
		t.Fatalf("BusySpinWait.Wait() took %v, want effectively instant", elapsed)
	}
}

func TestYieldWaitReturns(t *testing.T) {
	start := time.Now()
	YieldWait{}.Wait()
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("YieldWait.Wait() took %v, want bounded", elapsed)
	}
}

func TestNewBackoffWaitValidation(t *testing.T) {
	if _, err := NewBackoffWait(0, time.Millisecond); err != ErrInvalidBackoff {
		t.Fatalf("expected ErrInvalidBackoff for non-positive min, got %v", err)
	}
	if _, err := NewBackoffWait(time.Millisecond, 0); err != ErrInvalidBackoff {
		t.Fatalf("expected ErrInvalidBackoff for non-positive max, got %v", err)
	}
	if _, err := NewBackoffWait(time.Second, time.Millisecond); err != ErrInvalidBackoff {
		t.Fatalf("expected ErrInvalidBackoff when min > max, got %v", err)
	}
	if _, err := NewBackoffWait(time.Millisecond, time.Second); err != nil {
		t.Fatalf("expected valid backoff to construct, got %v", err)
	}
}

func TestBackoffWaitDoublesAndCaps(t *testing.T) {
	b, err := NewBackoffWait(time.Millisecond, 4*time.Millisecond)
	if err != nil {
		t.Fatalf("NewBackoffWait: %v", err)
	}

	var elapsed []time.Duration
	for i := 0; i < 5; i++ {
		start := time.Now()
		b.Wait()
		elapsed = append(elapsed, time.Since(start))
	}

	// Each wait should be at least as long as its un-jittered floor, and
	// the floor should be non-decreasing until it caps at MaxDelay.
	floors := []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond, 4 * time.Millisecond, 4 * time.Millisecond}
	for i, d := range elapsed {
		if d < floors[i] {
			t.Fatalf("wait[%d] = %v, want at least %v", i, d, floors[i])
		}
	}
}

func TestBackoffWaitReset(t *testing.T) {
	b, err := NewBackoffWait(time.Millisecond, time.Second)
	if err != nil {
		t.Fatalf("NewBackoffWait: %v", err)
	}
	b.Wait()
	b.Wait()
	if b.current <= b.MinDelay {
		t.Fatalf("expected current delay to have grown past MinDelay after two waits")
	}
	b.Reset()
	if b.current != b.MinDelay {
		t.Fatalf("Reset() left current = %v, want %v", b.current, b.MinDelay)
	}
}
