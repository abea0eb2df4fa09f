package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agr-scraper/utils"
)

// RunResult is the structured outcome of a job trigger. Busy is a normal
// outcome, not an error: Skipped is set and the in-flight job is reported.
type RunResult struct {
	OK         bool   `json:"ok"`
	Skipped    bool   `json:"skipped"`
	Error      string `json:"error,omitempty"`
	Running    string `json:"running,omitempty"`
	RunningFor string `json:"running_for,omitempty"`
}

// Runner enforces single-flight execution across all job identities. One
// shared namespace guards movements, items and the combined job, so at most
// one browser session exists process-wide. Contenders are rejected
// immediately, never queued.
type Runner struct {
	mu         sync.Mutex
	currentJob string
	startedAt  time.Time
	logger     *utils.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger *utils.Logger) *Runner {
	return &Runner{logger: logger.WithTag("[LOCK]")}
}

// Status returns the in-flight job name ("" when idle) and how long it has
// been running.
func (r *Runner) Status() (string, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.currentJob == "" {
		return "", 0
	}
	return r.currentJob, time.Since(r.startedAt)
}

// Run executes fn under the lock with the given deadline. A held lock returns
// a skipped result without blocking. On deadline the run is reported failed
// and the context cancellation unwinds in-flight browser and store
// operations; the lock is always released.
func (r *Runner) Run(job string, timeout time.Duration, fn func(ctx context.Context) error) RunResult {
	r.mu.Lock()
	if r.currentJob != "" {
		running := r.currentJob
		runningFor := time.Since(r.startedAt)
		r.mu.Unlock()
		return RunResult{
			Skipped:    true,
			Running:    running,
			RunningFor: FormatElapsed(runningFor),
		}
	}
	r.currentJob = job
	r.startedAt = time.Now()
	started := r.startedAt
	r.mu.Unlock()

	r.logger.Info("START %s", job)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = fmt.Errorf("%s exceeded %v: %w", job, timeout, ctx.Err())
	}
	cancel()

	r.mu.Lock()
	r.currentJob = ""
	r.startedAt = time.Time{}
	r.mu.Unlock()

	elapsed := time.Since(started)
	if err != nil {
		r.logger.Error("ERROR %s (%s): %v", job, FormatElapsed(elapsed), err)
		return RunResult{Error: err.Error()}
	}
	r.logger.Info("OK %s (%s)", job, FormatElapsed(elapsed))
	return RunResult{OK: true}
}

// FormatElapsed renders a duration as "1h 2m 3s" / "2m 3s" / "3s".
func FormatElapsed(d time.Duration) string {
	s := int(d.Seconds())
	m := s / 60
	h := m / 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m%60, s%60)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s%60)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
