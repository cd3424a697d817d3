package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobradar/jobradar/internal/browse"
	"github.com/jobradar/jobradar/internal/store"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored jobs in an interactive terminal UI",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobStore, err := store.Open(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer jobStore.Close()

	jobs, err := jobStore.All(ctx)
	if err != nil {
		logger.Error("failed to load jobs", "error", err)
		os.Exit(1)
	}
	if len(jobs) == 0 {
		fmt.Println("no jobs stored yet, run `jobradar scrape` first")
		return nil
	}

	return browse.Run(jobs)
}
