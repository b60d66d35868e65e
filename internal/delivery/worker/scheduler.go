package worker

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"smartqueue/internal/errors"
	"smartqueue/internal/usecase"
)

var errPanic = errors.New("job panicked")

// Job is one periodic unit of work run by the scheduler.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) (usecase.JobReport, error)
}

// Scheduler drives periodic jobs, one goroutine per job. A run never
// overlaps with itself, failures are retried with bounded exponential
// backoff, and a run is cancelled once it exceeds twice the job interval.
// A failing or panicking job never takes the process down.
type Scheduler struct {
	jobs        []Job
	maxAttempts int
	backoffBase time.Duration
	logger      *slog.Logger
}

// NewScheduler creates a scheduler over the given jobs.
func NewScheduler(jobs []Job, maxAttempts int, backoffBase time.Duration, logger *slog.Logger) *Scheduler {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if backoffBase <= 0 {
		backoffBase = 5 * time.Second
	}

	return &Scheduler{
		jobs:        jobs,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
		logger:      logger,
	}
}

// Run blocks until ctx is cancelled, then waits for in-flight runs.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, job := range s.jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runJob(ctx, job)
		}()
	}
	wg.Wait()
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Runs happen inline in this loop, so a slow run cannot
			// overlap the next tick; at most one tick stays pending.
			s.runOnce(ctx, job)
		}
	}
}

// runOnce executes one job run with retries. The whole run, retries
// included, is bounded by twice the job interval.
func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	runCtx, cancel := context.WithTimeout(ctx, 2*job.Interval)
	defer cancel()

	backoff := s.backoffBase
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		report, err := s.attempt(runCtx, job)
		if err == nil {
			s.logger.Info("job run finished",
				slog.String("job", job.Name),
				slog.Int("processed", report.Processed),
				slog.Int("skipped", report.Skipped),
				slog.Int("failed", report.Failed),
			)

			return
		}

		s.logger.Error("job run failed",
			slog.String("job", job.Name),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)

		if attempt == s.maxAttempts {
			return
		}

		select {
		case <-runCtx.Done():
			s.logger.Warn("job run cancelled", slog.String("job", job.Name))

			return
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}

// attempt runs the job once, converting a panic into an error.
func (s *Scheduler) attempt(ctx context.Context, job Job) (report usecase.JobReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panicked",
				slog.String("job", job.Name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = errPanic
		}
	}()

	return job.Run(ctx)
}
