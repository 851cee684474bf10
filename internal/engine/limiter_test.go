package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestJobLimiter_TryAcquire(t *testing.T) {
	l := NewJobLimiter(2, time.Second)

	if !l.TryAcquire() {
		t.Fatal("first TryAcquire failed")
	}
	if !l.TryAcquire() {
		t.Fatal("second TryAcquire failed")
	}
	if l.TryAcquire() {
		t.Fatal("third TryAcquire succeeded beyond capacity")
	}

	if got := l.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount() = %d, want 2", got)
	}
	if got := l.Available(); got != 0 {
		t.Errorf("Available() = %d, want 0", got)
	}

	l.Release()
	if !l.TryAcquire() {
		t.Error("TryAcquire failed after Release")
	}
}

func TestJobLimiter_AcquireTimeout(t *testing.T) {
	l := NewJobLimiter(1, 50*time.Millisecond)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	err := l.Acquire(context.Background())
	if !errors.Is(err, ErrTooManyJobs) {
		t.Errorf("Acquire() with full limiter = %v, want ErrTooManyJobs", err)
	}
}

func TestJobLimiter_AcquireCancelledContext(t *testing.T) {
	l := NewJobLimiter(1, time.Second)
	l.TryAcquire()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire(cancelled ctx) = %v, want context.Canceled", err)
	}
}

func TestJobLimiter_Defaults(t *testing.T) {
	l := NewJobLimiter(0, 0)
	if got := l.MaxConcurrent(); got != DefaultMaxConcurrentJobs {
		t.Errorf("MaxConcurrent() = %d, want %d", got, DefaultMaxConcurrentJobs)
	}
}

func TestJobLimiter_WaitForDrain(t *testing.T) {
	l := NewJobLimiter(1, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.WaitForDrain(ctx); err != nil {
		t.Errorf("WaitForDrain() with idle limiter = %v, want nil", err)
	}

	l.TryAcquire()
	busyCtx, busyCancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer busyCancel()
	if err := l.WaitForDrain(busyCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForDrain() with busy limiter = %v, want deadline exceeded", err)
	}
}
