// Package tasks runs the periodic maintenance jobs: expired OAuth state and
// rate-limit sweeps, and the unread contact message digest. Each job loops
// on its own interval; the runner owns their lifecycle so shutdown can wait
// for in-flight work.
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one periodic task. Run is invoked once at startup and then every
// Interval until the runner stops.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner schedules registered jobs on their intervals.
type Runner struct {
	logger *zap.Logger
	jobs   []Job
	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// New creates an empty runner. Register jobs, then Start.
func New(logger *zap.Logger) *Runner {
	return &Runner{
		logger:   logger,
		inFlight: map[string]struct{}{},
	}
}

// Register adds a job. Must be called before Start.
func (r *Runner) Register(job Job) {
	r.jobs = append(r.jobs, job)
}

// Start launches one goroutine per registered job.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(ctx, job)
	}

	r.logger.Info("task runner started", zap.Int("jobs", len(r.jobs)))
}

// Stop cancels all jobs and waits for in-flight runs to finish, up to the
// context's deadline. Returns ctx.Err() if the wait is cut short.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("task runner stopped")
		return nil
	case <-ctx.Done():
		r.mu.Lock()
		var stuck []string
		for name := range r.inFlight {
			stuck = append(stuck, name)
		}
		r.mu.Unlock()
		r.logger.Warn("task runner shutdown timed out",
			zap.Strings("still_running", stuck))
		return ctx.Err()
	}
}

func (r *Runner) loop(ctx context.Context, job Job) {
	defer r.wg.Done()

	// First sweep happens right away so a restart never leaves stale
	// state sitting until the interval elapses.
	r.runNow(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("job loop stopped", zap.String("job", job.Name))
			return
		case <-ticker.C:
			r.runNow(ctx, job)
		}
	}
}

func (r *Runner) runNow(ctx context.Context, job Job) {
	r.mu.Lock()
	r.inFlight[job.Name] = struct{}{}
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.inFlight, job.Name)
		r.mu.Unlock()
	}()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		if ctx.Err() != nil {
			// Cancelled mid-run during shutdown; not a failure.
			r.logger.Debug("job cancelled", zap.String("job", job.Name))
			return
		}
		r.logger.Error("job failed",
			zap.String("job", job.Name),
			zap.Duration("took", time.Since(start)),
			zap.Error(err))
		return
	}

	r.logger.Debug("job done",
		zap.String("job", job.Name),
		zap.Duration("took", time.Since(start)))
}

// RunOnce runs a registered job by name immediately, outside its schedule.
// Unknown names are a no-op.
func (r *Runner) RunOnce(ctx context.Context, name string) error {
	for _, job := range r.jobs {
		if job.Name == name {
			return job.Run(ctx)
		}
	}
	return nil
}
