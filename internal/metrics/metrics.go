// Package metrics provides Prometheus instrumentation for the comment
// moderation service. It exposes counters for moderation verdicts, histograms
// for check latency and spam scores, and counters for batch re-moderation runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ChecksTotal counts moderation checks, labeled by the resulting action:
	// "allow", "warn", "block", or "ban".
	ChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commentapp_moderation_checks_total",
		Help: "Total number of moderation checks by resulting action",
	}, []string{"action"})

	// CheckLatency records end-to-end moderation check latency in seconds.
	CheckLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "commentapp_moderation_check_latency_seconds",
		Help:    "Moderation check latency in seconds",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	})

	// SpamScore records the spam score distribution across checked comments.
	SpamScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "commentapp_moderation_spam_score",
		Help:    "Spam score distribution across checked comments",
		Buckets: []float64{.1, .2, .3, .4, .5, .6, .7, .8, .85, .9, 1},
	})

	// FlaggedTermsTotal counts banned-term matches, labeled by tier severity.
	FlaggedTermsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commentapp_moderation_flagged_terms_total",
		Help: "Total number of banned-term matches by tier severity",
	}, []string{"severity"})

	// BatchRunsTotal counts completed batch re-moderation runs.
	BatchRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "commentapp_remoderation_runs_total",
		Help: "Total number of completed batch re-moderation runs",
	})

	// BatchRemovedTotal counts comments removed by batch re-moderation.
	BatchRemovedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "commentapp_remoderation_removed_total",
		Help: "Total number of comments removed by batch re-moderation",
	})

	// BatchDuration records the duration of batch re-moderation runs.
	BatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "commentapp_remoderation_duration_seconds",
		Help:    "Duration of batch re-moderation runs in seconds",
		Buckets: []float64{.5, 1, 2, 5, 10, 30, 60, 120, 300},
	})
)

func init() {
	prometheus.MustRegister(
		ChecksTotal,
		CheckLatency,
		SpamScore,
		FlaggedTermsTotal,
		BatchRunsTotal,
		BatchRemovedTotal,
		BatchDuration,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
