// Package metrics defines the Prometheus instrumentation for scoring and
// alert processing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the service
type Metrics struct {
	ScoresComputed prometheus.Counter
	ScoreCache     *prometheus.CounterVec // labels: result={hit,miss}

	AlertsChecked     prometheus.Counter
	NotificationsSent prometheus.Counter
	AlertErrors       prometheus.Counter
	AlertsExpired     prometheus.Counter

	CycleDuration prometheus.Histogram
}

// New creates all service metrics, unregistered
func New() *Metrics {
	return &Metrics{
		ScoresComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "surfcast",
			Name:      "scores_computed_total",
			Help:      "Total beach scores computed and persisted.",
		}),
		ScoreCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surfcast",
			Name:      "score_cache_total",
			Help:      "Score cache lookups by result.",
		}, []string{"result"}),
		AlertsChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "surfcast",
			Name:      "alerts_checked_total",
			Help:      "Total alert evaluations performed.",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "surfcast",
			Name:      "notifications_sent_total",
			Help:      "Total notifications created for matched alerts.",
		}),
		AlertErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "surfcast",
			Name:      "alert_errors_total",
			Help:      "Per-alert failures during processing cycles.",
		}),
		AlertsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "surfcast",
			Name:      "alerts_expired_total",
			Help:      "Alerts deactivated because their target date passed.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "surfcast",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of one alert processing cycle.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// Register registers all metrics with reg
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.ScoresComputed,
		m.ScoreCache,
		m.AlertsChecked,
		m.NotificationsSent,
		m.AlertErrors,
		m.AlertsExpired,
		m.CycleDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
