// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the watcher.
type Metrics struct {
	// Cycle metrics
	CyclesTotal   prometheus.Counter
	CycleDuration prometheus.Histogram

	// Evaluation metrics
	TokensEvaluated prometheus.Counter
	Accepted        prometheus.Counter
	RejectionsTotal *prometheus.CounterVec
	FetchErrors     prometheus.Counter

	// Side effect metrics
	TradesExecuted    prometheus.Counter
	NotificationsSent prometheus.Counter
	SideEffectErrors  *prometheus.CounterVec

	// Storage metrics
	AppendErrors  prometheus.Counter
	ArchiveErrors prometheus.Counter

	// Watch state metrics
	WatchlistSize prometheus.Gauge
	BlacklistSize prometheus.Gauge

	// Anomaly metrics
	AnomalyFlags prometheus.Gauge
}

// New creates a Metrics instance registered on reg. A nil reg uses the
// default registry, which Handler serves. Tests pass their own registry
// so repeated construction does not collide.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "dexsentry"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Cycle metrics
		CyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "cycles_total",
			Help:      "Total number of polling cycles completed",
		}),
		CycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "cycle_duration_seconds",
			Help:      "Polling cycle duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),

		// Evaluation metrics
		TokensEvaluated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "tokens_evaluated_total",
			Help:      "Total number of token snapshots evaluated",
		}),
		Accepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "accepted_total",
			Help:      "Total number of tokens that passed every check",
		}),
		RejectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "rejections_total",
			Help:      "Total number of rejections by first failed check",
		}, []string{"reason"}),
		FetchErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "fetch_errors_total",
			Help:      "Total number of market data fetches that yielded no usable snapshot",
		}),

		// Side effect metrics
		TradesExecuted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "trades_executed_total",
			Help:      "Total number of buy orders submitted",
		}),
		NotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "notifications_sent_total",
			Help:      "Total number of notifications delivered",
		}),
		SideEffectErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "side_effect_errors_total",
			Help:      "Total number of failed side effects by kind",
		}, []string{"effect"}),

		// Storage metrics
		AppendErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "append_errors_total",
			Help:      "Total number of failed ledger appends",
		}),
		ArchiveErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "archive_errors_total",
			Help:      "Total number of failed snapshot archive inserts",
		}),

		// Watch state metrics
		WatchlistSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "watchlist_size",
			Help:      "Current number of watched token addresses",
		}),
		BlacklistSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "blacklist_size",
			Help:      "Current number of blacklisted token and developer addresses",
		}),

		// Anomaly metrics
		AnomalyFlags: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "anomaly",
			Name:      "flags",
			Help:      "Number of records flagged by the latest anomaly pass",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint. It serves
// the default registry, so the daemon constructs its Metrics with a
// nil registerer.
func Handler() http.Handler {
	return promhttp.Handler()
}
