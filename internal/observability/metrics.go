// Package observability provides Prometheus metrics for monitoring runs.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the monitoring core.
type Metrics struct {
	// Run metrics
	RunsTotal         *prometheus.CounterVec // label: outcome (success|error)
	AccountsMonitored prometheus.Counter
	AccountFailures   prometheus.Counter

	// Pipeline metrics
	TradesIngested    prometheus.Counter
	ViolationsRaised  *prometheus.CounterVec // labels: kind, severity
	ChallengesFailed  prometheus.Counter
	ProfitTargetsHit  prometheus.Counter
	SnapshotsRecorded prometheus.Counter

	// Latency metrics
	AccountSyncDuration prometheus.Histogram
	RunDuration         prometheus.Histogram

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "challenge_monitor"
	}

	return &Metrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "runs_total",
			Help:      "Total number of monitoring runs",
		}, []string{"outcome"}),
		AccountsMonitored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "accounts_monitored_total",
			Help:      "Total number of accounts processed across runs",
		}),
		AccountFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "account_failures_total",
			Help:      "Total number of per-account pipeline failures",
		}),
		TradesIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "trades_ingested_total",
			Help:      "Total number of newly recorded trades",
		}),
		ViolationsRaised: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "violations_raised_total",
			Help:      "Total number of violations recorded",
		}, []string{"kind", "severity"}),
		ChallengesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "challenges_failed_total",
			Help:      "Total number of terminal challenge transitions",
		}),
		ProfitTargetsHit: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "profit_targets_hit_total",
			Help:      "Total number of profit-target notifications dispatched",
		}),
		SnapshotsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "snapshots_recorded_total",
			Help:      "Total number of snapshots written",
		}),
		AccountSyncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "account_sync_duration_seconds",
			Help:      "Duration of one account's pipeline execution",
			Buckets:   prometheus.DefBuckets,
		}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "run_duration_seconds",
			Help:      "Duration of one full monitoring run",
			Buckets:   prometheus.DefBuckets,
		}),
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "last_successful_run_timestamp_seconds",
			Help:      "Unix timestamp of the last successful run",
		}),
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
