package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// CronRunner drives scheduler passes on a cron cadence. The HTTP
// process-due endpoint triggers the same pass on demand; both paths are
// safe to overlap because the task claim is atomic.
type CronRunner struct {
	cron      *cron.Cron
	scheduler *Scheduler
	logger    *slog.Logger
}

// NewCronRunner creates a CronRunner that executes a scheduler pass on
// the given cron spec (standard 5-field syntax, e.g. "* * * * *").
func NewCronRunner(s *Scheduler, spec string, logger *slog.Logger) (*CronRunner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	r := &CronRunner{
		cron:      cron.New(),
		scheduler: s,
		logger:    logger.With("component", "scheduler_cron"),
	}

	if _, err := r.cron.AddFunc(spec, r.runPass); err != nil {
		return nil, fmt.Errorf("invalid scheduler cron spec %q: %w", spec, err)
	}

	return r, nil
}

// runPass executes one scheduler pass with a background context.
func (r *CronRunner) runPass() {
	processed, err := r.scheduler.ProcessScheduledTasks(context.Background())
	if err != nil {
		r.logger.Error("scheduler pass failed", "error", err)
		return
	}
	if processed > 0 {
		r.logger.Info("scheduler pass finished", "processed", processed)
	}
}

// Start begins cron execution in its own goroutine.
func (r *CronRunner) Start() {
	r.cron.Start()
	r.logger.Info("scheduler cron started")
}

// Stop halts cron execution, waiting for a running pass to finish.
func (r *CronRunner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("scheduler cron stopped")
}
