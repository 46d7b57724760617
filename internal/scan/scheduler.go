package scan

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shanehull/batterydb/internal/history"
)

// Runner performs one scan.
type Runner interface {
	Run(ctx context.Context) (history.Run, error)
}

// Every runs job on each tick of interval until ctx is done. A failed run is
// logged and the next tick runs again; runs never overlap.
func Every(ctx context.Context, job Runner, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Scheduled scans started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("Scheduled scans stopped")
			return
		case <-ticker.C:
			run, err := job.Run(ctx)
			if err != nil {
				logger.Error("Scheduled scan failed", zap.String("run", run.ID), zap.Error(err))
				continue
			}
			logger.Info("Scheduled scan finished",
				zap.String("run", run.ID),
				zap.Int("confirmed", run.Confirmed),
				zap.String("report", run.ReportPath),
			)
		}
	}
}
