package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobradar/jobradar/internal/ingest"
	"github.com/jobradar/jobradar/internal/jsearch"
	"github.com/jobradar/jobradar/internal/store"
)

var scrapePages int

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run one ingestion cycle and exit",
	Long:  "Fetches all configured queries once, merges the results into the store, and exits.",
	RunE:  runScrape,
}

func init() {
	scrapeCmd.Flags().IntVar(&scrapePages, "pages", 0, "pages to fetch per query (default: config value)")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
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

	pages := cfg.Scrape.Pages
	if scrapePages > 0 {
		pages = scrapePages
	}

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

	total := runner.RunCycle(ctx, cfg.Scrape.Queries, pages)
	logger.Info("scrape complete", "processed", total)
	return nil
}
