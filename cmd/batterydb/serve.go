package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shanehull/batterydb/internal/catalog"
	"github.com/shanehull/batterydb/internal/metrics"
	"github.com/shanehull/batterydb/internal/scan"
	"github.com/shanehull/batterydb/internal/server"
)

const shutdownTimeout = 10 * time.Second

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog as a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listenAddr != "" {
			cfg.ListenAddr = listenAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		metrics.Register()

		store, err := catalog.NewStore(cfg.DSN)
		if err != nil {
			return err
		}

		if cfg.ScanInterval > 0 {
			startScheduledScans(ctx, cmd)
		}

		srv := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           server.New(store, logger).Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Listening", zap.String("addr", cfg.ListenAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case <-ctx.Done():
			logger.Info("Shutting down")
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// startScheduledScans runs the scan job in the background. A missing oracle
// key disables scheduling instead of stopping the API.
func startScheduledScans(ctx context.Context, cmd *cobra.Command) {
	job, err := newScanJob(ctx, cmd)
	if err != nil {
		logger.Warn("Scheduled scans disabled", zap.Error(err))
		return
	}
	go scan.Every(ctx, job, cfg.ScanInterval, logger)
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "addr", "a", "", "Listen address (default: :8080, or LISTEN_ADDR)")
}
