package fanout

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// SweepJob is a periodic maintenance task: retrying failed mail sends,
// pruning stale availability rows. Jobs must be safe to run concurrently
// with request traffic.
type SweepJob struct {
	Name string
	Run  func(ctx context.Context) error
}

// Sweeper drives the registered jobs on a cron schedule.
type Sweeper struct {
	cron *cron.Cron
	jobs []SweepJob
	spec string
}

// NewSweeper creates a Sweeper firing on the given cron spec
// (e.g. "@every 10m").
func NewSweeper(spec string, jobs ...SweepJob) *Sweeper {
	return &Sweeper{
		cron: cron.New(),
		jobs: jobs,
		spec: spec,
	}
}

// Start registers the sweep with the cron runner and starts it.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() { s.sweep(ctx) })
	if err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("sweeper started", "spec", s.spec, "jobs", len(s.jobs))
	return nil
}

// Stop shuts the cron runner down, waiting for a running sweep.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) sweep(ctx context.Context) {
	for _, job := range s.jobs {
		if err := job.Run(ctx); err != nil {
			slog.Warn("sweep job failed", "job", job.Name, "err", err)
		}
	}
}
