package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobradar/jobradar/internal/ingest"
	"github.com/jobradar/jobradar/internal/jsearch"
	"github.com/jobradar/jobradar/internal/scheduler"
	"github.com/jobradar/jobradar/internal/store"
)

var (
	startIntervalHours float64
	startPages         int
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the looped ingestion daemon",
	Long:  "Runs an immediate ingestion cycle, then repeats on the configured interval; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	startCmd.Flags().Float64Var(&startIntervalHours, "interval", 0, "hours between cycles (default: config value)")
	startCmd.Flags().IntVar(&startPages, "pages", 0, "pages to fetch per query (default: config value)")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := requireAPIKey(cfg); err != nil {
		logger.Error("missing configuration", "error", err)
		os.Exit(1)
	}

	interval := cfg.Loop.Interval
	if startIntervalHours > 0 {
		interval = time.Duration(startIntervalHours * float64(time.Hour))
	}
	pages := cfg.Scrape.Pages
	if startPages > 0 {
		pages = startPages
	}

	logger.Info("config loaded",
		"interval", interval.String(),
		"queries", len(cfg.Scrape.Queries),
		"pages", pages,
		"country", cfg.Scrape.Country,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobStore, err := store.Open(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer jobStore.Close()

	client := jsearch.New(cfg.API, cfg.Scrape, logger)
	runner := ingest.NewRunner(client, jobStore, cfg.Scrape.QueryDelay, logger)

	sched := scheduler.NewScheduler(runner, cfg.Scrape.Queries, pages, interval, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
