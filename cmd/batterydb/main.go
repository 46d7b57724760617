package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shanehull/batterydb/internal/config"
	"github.com/shanehull/batterydb/internal/logging"
)

var (
	// Global flags
	verbose   bool
	dsn       string
	dataDir   string
	feedsFile string

	logger *zap.Logger
	cfg    config.Config
)

var rootCmd = &cobra.Command{
	Use:   "batterydb",
	Short: "Residential battery catalog and launch tracker",
	Long: `batterydb keeps a catalog of residential battery storage products.

It seeds the catalog from CSV files, serves it as a sortable JSON API and
scans news feeds for newly announced batteries that are not tracked yet.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if logger, err = logging.New(verbose); err != nil {
			return err
		}

		cfg, err = config.Load(config.Overrides{
			DSN:       dsn,
			DataDir:   dataDir,
			FeedsFile: feedsFile,
		})
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dsn, "db", "", "Catalog DSN: SQLite path or postgres:// URL (or set BATTERYDB_DSN)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Directory holding seed files, reports and scan history (default: data)")
	rootCmd.PersistentFlags().StringVar(&feedsFile, "feeds", "", "Feed list file (default: <data-dir>/feeds.yaml)")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
