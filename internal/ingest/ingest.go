// Package ingest owns the full ingestion cycle: fetch raw pages per query,
// normalize each record, and merge into the store.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jobradar/jobradar/internal/model"
	"github.com/jobradar/jobradar/internal/normalize"
)

// Runner drives one ingestion cycle across a fixed list of queries. Queries
// run strictly sequentially; a query that fails entirely never aborts the
// cycle, and a record that fails to normalize or upsert never aborts its
// batch.
type Runner struct {
	source     model.JobSource
	store      model.JobStore
	queryDelay time.Duration
	logger     *slog.Logger

	// sleep is overridable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner wires a cycle runner with its dependencies.
func NewRunner(source model.JobSource, store model.JobStore, queryDelay time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		source:     source,
		store:      store,
		queryDelay: queryDelay,
		logger:     logger,
		sleep: func(ctx context.Context, d time.Duration) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
				return nil
			}
		},
	}
}

// RunCycle processes every query once and returns the total number of
// records successfully upserted. A politeness delay separates consecutive
// queries.
func (r *Runner) RunCycle(ctx context.Context, queries []string, maxPages int) int {
	r.logger.Info("starting ingestion cycle", "queries", len(queries), "pages", maxPages)

	total := 0
	for i, query := range queries {
		if ctx.Err() != nil {
			break
		}

		saved := r.runQuery(ctx, query, maxPages)
		total += saved

		// Delay between distinct queries to avoid upstream throttling,
		// except after the last one.
		if i < len(queries)-1 {
			if err := r.sleep(ctx, r.queryDelay); err != nil {
				break
			}
		}
	}

	r.logger.Info("ingestion cycle complete", "processed", total)
	return total
}

// runQuery fetches, normalizes, and upserts all records for one query,
// returning the number of successful upserts.
func (r *Runner) runQuery(ctx context.Context, query string, maxPages int) int {
	records := r.source.FetchAll(ctx, query, maxPages)

	var saved, rejected, failed int
	for _, raw := range records {
		job, err := normalize.Job(raw)
		if err != nil {
			rejected++
			if !errors.Is(err, model.ErrMissingID) {
				r.logger.Warn("rejecting record", "query", query, "error", err)
			}
			continue
		}

		if err := r.store.Upsert(ctx, job); err != nil {
			failed++
			r.logger.Warn("upsert failed", "job_id", job.ID, "error", err)
			continue
		}
		saved++
	}

	r.logger.Info("processed query",
		"query", query,
		"fetched", len(records),
		"saved", saved,
		"rejected", rejected,
		"failed", failed,
	)
	return saved
}
