// Package scheduler runs the recurring background jobs: the due-check
// sweep and task housekeeping.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Job is a named function executed on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner drives each job on its own ticker. A tick that arrives while
// the previous run of the same job is still in flight is skipped, so a
// slow sweep never stacks up behind itself.
type Runner struct {
	jobs []Job
	log  zerolog.Logger
}

func New(logger zerolog.Logger, jobs ...Job) *Runner {
	return &Runner{jobs: jobs, log: logger}
}

// Start blocks until ctx is cancelled and every job goroutine has
// stopped.
func (r *Runner) Start(ctx context.Context) {
	var wg sync.WaitGroup
	for _, job := range r.jobs {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			r.loop(ctx, job)
		}(job)
	}
	wg.Wait()
}

func (r *Runner) loop(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	var inFlight atomic.Bool
	r.log.Info().Str("job", job.Name).Dur("interval", job.Interval).Msg("job scheduled")

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Str("job", job.Name).Msg("job stopped")
			return
		case <-ticker.C:
			if !inFlight.CompareAndSwap(false, true) {
				r.log.Warn().Str("job", job.Name).Msg("previous run still in flight, tick skipped")
				continue
			}
			go func() {
				defer inFlight.Store(false)
				start := time.Now()
				if err := job.Run(ctx); err != nil {
					r.log.Error().Err(err).Str("job", job.Name).Msg("job run failed")
					return
				}
				r.log.Debug().Str("job", job.Name).Dur("took", time.Since(start)).Msg("job run finished")
			}()
		}
	}
}
