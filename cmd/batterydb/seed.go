package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shanehull/batterydb/internal/catalog"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Drop and recreate the catalog from the seed CSV files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}

		store, err := catalog.NewStore(cfg.DSN)
		if err != nil {
			return err
		}

		res, err := store.Seed(cmd.Context(), cfg.BrandsSeedPath(), cfg.BatteriesSeedPath(), logger)
		if err != nil {
			return err
		}

		logger.Info("Seed complete", zap.Int("brands", res.Brands), zap.Int("batteries", res.Batteries))
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d brands and %d batteries.\n", res.Brands, res.Batteries)
		return nil
	},
}
