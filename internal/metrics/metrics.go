/*
Package metrics holds the Prometheus collectors shared by the scan job and the
browse API.
*/
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ScanRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batterydb_scan_runs_total",
			Help: "Completed scan runs by result",
		},
		[]string{"result"},
	)

	FeedFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batterydb_feed_fetches_total",
			Help: "Feed fetch attempts by feed and result",
		},
		[]string{"feed", "result"},
	)

	RelevantArticlesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batterydb_relevant_articles_total",
			Help: "Keyword-relevant articles published after the cutoff, by feed",
		},
		[]string{"feed"},
	)

	OracleCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "batterydb_oracle_call_duration_seconds",
			Help:    "Latency of oracle calls by stage",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"stage"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batterydb_http_requests_total",
			Help: "Browse API requests by route and status code",
		},
		[]string{"route", "code"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "batterydb_http_request_duration_seconds",
			Help:    "Browse API latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ScanRunsTotal,
			FeedFetchesTotal,
			RelevantArticlesTotal,
			OracleCallDuration,
			HTTPRequestsTotal,
			HTTPRequestDuration,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
