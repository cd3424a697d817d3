package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// CycleRunner runs one full ingestion cycle. Implemented by ingest.Runner.
type CycleRunner interface {
	RunCycle(ctx context.Context, queries []string, maxPages int) int
}

// Scheduler owns the looped mode: one immediate cycle, then one per
// interval. Cancellation takes effect between cycles; individual upserts are
// already durable, so stopping mid-wait loses nothing.
type Scheduler struct {
	runner   CycleRunner
	queries  []string
	maxPages int
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that re-runs the cycle at the given interval.
func NewScheduler(runner CycleRunner, queries []string, maxPages int, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		queries:  queries,
		maxPages: maxPages,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful
// shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler",
		"interval", s.interval.String(),
		"queries", len(s.queries),
		"pages", s.maxPages,
	)

	s.runner.RunCycle(ctx, s.queries, s.maxPages)

	for {
		s.logger.Info("next cycle scheduled", "in", s.interval.String())
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.runner.RunCycle(ctx, s.queries, s.maxPages)
		}
	}
}
