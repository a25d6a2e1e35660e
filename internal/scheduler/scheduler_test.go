package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRunnerRunsJobs(t *testing.T) {
	var runs atomic.Int32
	r := New(zerolog.Nop(), Job{
		Name:     "counter",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	r.Start(ctx)

	if runs.Load() < 2 {
		t.Errorf("runs = %d, want at least 2", runs.Load())
	}
}

func TestRunnerSkipsOverlappingTicks(t *testing.T) {
	var started atomic.Int32
	block := make(chan struct{})

	r := New(zerolog.Nop(), Job{
		Name:     "slow",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			started.Add(1)
			<-block
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	// Several ticks elapse while the first run blocks; all of them must
	// be skipped.
	time.Sleep(80 * time.Millisecond)
	close(block)
	cancel()
	<-done

	if got := started.Load(); got != 1 {
		t.Errorf("started runs = %d, want 1 while first run is in flight", got)
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	r := New(zerolog.Nop(), Job{
		Name:     "noop",
		Interval: time.Hour,
		Run:      func(ctx context.Context) error { return nil },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancellation")
	}
}
