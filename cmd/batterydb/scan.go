package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shanehull/batterydb/internal/ai"
	"github.com/shanehull/batterydb/internal/catalog"
	"github.com/shanehull/batterydb/internal/feeds"
	"github.com/shanehull/batterydb/internal/history"
	"github.com/shanehull/batterydb/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan news feeds for battery launches missing from the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := newScanJob(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		_, err = job.Run(cmd.Context())
		return err
	},
}

// newScanJob wires the scan job from cfg. The oracle key is checked first so
// a missing credential fails before any network traffic.
func newScanJob(ctx context.Context, cmd *cobra.Command) (*scan.Job, error) {
	if err := cfg.RequireOracleKey(); err != nil {
		return nil, err
	}

	oracle, err := ai.New(ctx, cfg.OracleProvider, cfg.OracleKey, cfg.OracleModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s oracle: %w", cfg.OracleProvider, err)
	}

	store, err := catalog.NewStore(cfg.DSN)
	if err != nil {
		return nil, err
	}

	hist, err := history.NewManager(cfg.HistoryFile, logger)
	if err != nil {
		return nil, err
	}

	opts := scan.Options{
		FeedsFile:     cfg.FeedsFile,
		ReportDir:     cfg.ReportDir,
		OracleTimeout: cfg.OracleTimeout,
		Email:         cfg.Email,
		Out:           cmd.OutOrStdout(),
	}
	return scan.NewJob(opts, feeds.NewFetcher(nil, logger), oracle, store, hist, logger), nil
}
