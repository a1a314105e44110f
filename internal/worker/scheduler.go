package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler fires recurring jobs on cron specs. Each run gets its own
// context bounded by the run timeout.
type Scheduler struct {
	cron       *cron.Cron
	runTimeout time.Duration
}

func NewScheduler(runTimeout time.Duration) *Scheduler {
	if runTimeout <= 0 {
		runTimeout = 10 * time.Minute
	}
	return &Scheduler{
		cron:       cron.New(),
		runTimeout: runTimeout,
	}
}

// AddJob registers job under spec, which accepts the standard five field
// format and descriptors such as "@daily".
func (s *Scheduler) AddJob(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			slog.Error("scheduled job failed", "job", name, "error", err)
			return
		}
		slog.Info("scheduled job finished", "job", name, "duration", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	return nil
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running ones until ctx ends.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
