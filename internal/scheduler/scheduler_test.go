package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type CountingRunner struct {
	calls atomic.Int32
}

func (r *CountingRunner) RunCycle(_ context.Context, _ []string, _ int) int {
	r.calls.Add(1)
	return 0
}

func TestRun_ImmediateCycleThenTicks(t *testing.T) {
	runner := &CountingRunner{}
	s := NewScheduler(runner, []string{"q"}, 1, 30*time.Millisecond, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// One immediate cycle plus at least two ticks within 100ms.
	if got := runner.calls.Load(); got < 3 {
		t.Errorf("expected at least 3 cycles, got %d", got)
	}
}

func TestRun_CancelledBeforeFirstTickRunsOnce(t *testing.T) {
	runner := &CountingRunner{}
	s := NewScheduler(runner, []string{"q"}, 1, time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Give the immediate cycle time to run, then cancel between cycles.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}

	if got := runner.calls.Load(); got != 1 {
		t.Errorf("expected exactly 1 cycle, got %d", got)
	}
}
