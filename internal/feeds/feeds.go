/*
Package feeds fetches the configured news feeds and keeps the items that look
like residential battery news published after the cutoff.
*/
package feeds

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/shanehull/batterydb/internal/metrics"
	"github.com/shanehull/batterydb/internal/types"
)

const (
	fetchTimeout = 60 * time.Second
	userAgent    = "batterydb-scan/1.0"
)

type Feed struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// LoadFeeds reads a YAML feed list. JSON is valid YAML, so a JSON array of
// {name, url} objects loads too.
func LoadFeeds(path string) ([]Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed list: %w", err)
	}

	var feeds []Feed
	if err := yaml.Unmarshal(data, &feeds); err != nil {
		return nil, fmt.Errorf("failed to parse feed list %s: %w", path, err)
	}

	for i, f := range feeds {
		if strings.TrimSpace(f.URL) == "" {
			return nil, fmt.Errorf("feed %d (%q) has no url", i+1, f.Name)
		}
		if f.Name == "" {
			feeds[i].Name = f.URL
		}
	}
	return feeds, nil
}

type Fetcher struct {
	client *http.Client
	logger *zap.Logger
}

func NewFetcher(client *http.Client, logger *zap.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Fetcher{client: client, logger: logger}
}

// FetchAll fetches every feed concurrently and returns the relevant articles
// published after cutoff, grouped in feed order. A feed that fails is logged
// and contributes nothing; FetchAll itself only fails if ctx is cancelled.
func (f *Fetcher) FetchAll(ctx context.Context, feeds []Feed, cutoff time.Time) ([]types.Article, error) {
	perFeed := make([][]types.Article, len(feeds))

	g, gctx := errgroup.WithContext(ctx)
	for i, feed := range feeds {
		g.Go(func() error {
			articles, err := f.fetch(gctx, feed, cutoff)
			if err != nil {
				metrics.FeedFetchesTotal.WithLabelValues(feed.Name, "error").Inc()
				f.logger.Warn("Failed to fetch feed", zap.String("feed", feed.Name), zap.Error(err))
				return nil
			}

			metrics.FeedFetchesTotal.WithLabelValues(feed.Name, "ok").Inc()
			metrics.RelevantArticlesTotal.WithLabelValues(feed.Name).Add(float64(len(articles)))
			f.logger.Info("Fetched feed",
				zap.String("feed", feed.Name),
				zap.Int("relevant", len(articles)),
			)
			perFeed[i] = articles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("feed fetch cancelled: %w", err)
	}

	var out []types.Article
	for _, articles := range perFeed {
		out = append(out, articles...)
	}
	return out, nil
}

func (f *Fetcher) fetch(ctx context.Context, feed Feed, cutoff time.Time) ([]types.Article, error) {
	// gofeed parsers keep per-parse state, so each goroutine gets its own.
	parser := gofeed.NewParser()
	parser.Client = f.client
	parser.UserAgent = userAgent

	parsed, err := parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", feed.URL, err)
	}
	return filterItems(parsed.Items, feed.Name, cutoff), nil
}
