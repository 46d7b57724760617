/*
Package scan runs the news scan: fetch feeds since the last run, ask the
oracle for new product announcements, drop the ones already in the catalog and
write the dated report.
*/
package scan

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shanehull/batterydb/internal/ai"
	"github.com/shanehull/batterydb/internal/announce"
	"github.com/shanehull/batterydb/internal/feeds"
	"github.com/shanehull/batterydb/internal/history"
	"github.com/shanehull/batterydb/internal/metrics"
	"github.com/shanehull/batterydb/internal/notify"
	"github.com/shanehull/batterydb/internal/types"
)

// Catalog lists what is already tracked.
type Catalog interface {
	TrackedBatteries(ctx context.Context) ([]types.TrackedBattery, error)
}

type Options struct {
	FeedsFile     string
	ReportDir     string
	OracleTimeout time.Duration
	Email         notify.EmailConfig

	// Out receives the console summary. Nil discards it.
	Out io.Writer
	// Now defaults to time.Now.
	Now func() time.Time
}

type Job struct {
	opts      Options
	fetcher   *feeds.Fetcher
	extractor *announce.Extractor
	matcher   *announce.Matcher
	catalog   Catalog
	history   *history.Manager
	logger    *zap.Logger
}

func NewJob(opts Options, fetcher *feeds.Fetcher, oracle ai.Oracle, catalog Catalog, hist *history.Manager, logger *zap.Logger) *Job {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Job{
		opts:      opts,
		fetcher:   fetcher,
		extractor: announce.NewExtractor(oracle, logger),
		matcher:   announce.NewMatcher(oracle, logger),
		catalog:   catalog,
		history:   hist,
		logger:    logger,
	}
}

// Run performs one scan and records it in the run history. Feed failures are
// tolerated; oracle, catalog and report failures abort the run.
func (j *Job) Run(ctx context.Context) (history.Run, error) {
	run, err := j.run(ctx)
	if err != nil {
		metrics.ScanRunsTotal.WithLabelValues("error").Inc()
		return run, err
	}
	metrics.ScanRunsTotal.WithLabelValues("ok").Inc()
	return run, nil
}

func (j *Job) run(ctx context.Context) (history.Run, error) {
	now := j.opts.Now()
	cutoff, fromHistory := j.history.Cutoff(now)

	run := history.Run{
		ID:         uuid.NewString(),
		ReportDate: history.FormatDate(now),
		Cutoff:     history.FormatDate(cutoff),
		StartedAt:  now.UTC(),
	}
	logger := j.logger.With(zap.String("run", run.ID))
	logger.Info("Starting scan",
		zap.String("cutoff", run.Cutoff),
		zap.Bool("from_last_run", fromHistory),
		zap.String("history", j.history.HistoryFilePath()),
	)

	feedList, err := feeds.LoadFeeds(j.opts.FeedsFile)
	if err != nil {
		return run, err
	}

	articles, err := j.fetcher.FetchAll(ctx, feedList, cutoff)
	if err != nil {
		return run, err
	}
	logger.Info("Fetched feeds", zap.Int("feeds", len(feedList)), zap.Int("relevant_articles", len(articles)))

	report := notify.Report{
		Date:     run.ReportDate,
		Cutoff:   run.Cutoff,
		Feeds:    len(feedList),
		Articles: len(articles),
	}

	if len(articles) > 0 {
		if report.Announcements, err = j.extract(ctx, articles); err != nil {
			return run, err
		}
		logger.Info("Identified announcements", zap.Int("count", len(report.Announcements)))
	}

	if len(report.Announcements) > 0 {
		tracked, err := j.catalog.TrackedBatteries(ctx)
		if err != nil {
			return run, fmt.Errorf("failed to load tracked batteries: %w", err)
		}
		logger.Info("Loaded catalog", zap.Int("tracked", len(tracked)))

		if report.Confirmed, err = j.dedup(ctx, report.Announcements, tracked); err != nil {
			return run, err
		}
		logger.Info("Confirmed new batteries", zap.Int("count", len(report.Confirmed)))
	}

	path, err := notify.WriteReport(j.opts.ReportDir, report)
	if err != nil {
		return run, err
	}
	logger.Info("Wrote report", zap.String("path", path))
	notify.PrintSummary(j.opts.Out, report, path)

	if err := notify.EmailReport(report, j.opts.Email, logger); err != nil {
		logger.Warn("Failed to email report", zap.Error(err))
	}

	run.Feeds = report.Feeds
	run.Articles = report.Articles
	run.Announcements = len(report.Announcements)
	run.Confirmed = len(report.Confirmed)
	run.ReportPath = path

	if err := j.history.Record(run); err != nil {
		return run, err
	}
	return run, nil
}

func (j *Job) oracleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if j.opts.OracleTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, j.opts.OracleTimeout)
}

func (j *Job) extract(ctx context.Context, articles []types.Article) ([]types.CandidateAnnouncement, error) {
	ctx, cancel := j.oracleContext(ctx)
	defer cancel()
	return j.extractor.Extract(ctx, articles)
}

func (j *Job) dedup(ctx context.Context, candidates []types.CandidateAnnouncement, tracked []types.TrackedBattery) ([]types.ConfirmedNewBattery, error) {
	ctx, cancel := j.oracleContext(ctx)
	defer cancel()
	return j.matcher.Dedup(ctx, candidates, tracked)
}
