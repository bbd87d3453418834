// Package metrics exposes Prometheus instrumentation for path resolution
// and snapshot lifecycle.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the collectors the resolver surfaces report into.
type Metrics struct {
	Resolutions       *prometheus.CounterVec
	DuplicatePaths    *prometheus.CounterVec
	ResolveDuration   prometheus.Histogram
	SnapshotRefreshes prometheus.Counter
	SnapshotWebsites  prometheus.Gauge
}

// New registers the sitetree collectors with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitetree",
			Name:      "resolutions_total",
			Help:      "Path resolutions by website and outcome status.",
		}, []string{"website", "status"}),
		DuplicatePaths: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitetree",
			Name:      "duplicate_paths_total",
			Help:      "Resolutions that hit ambiguous duplicate partial URLs.",
		}, []string{"website"}),
		ResolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sitetree",
			Name:      "resolve_duration_seconds",
			Help:      "Latency of FindNode resolutions.",
			Buckets:   prometheus.DefBuckets,
		}),
		SnapshotRefreshes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "sitetree",
			Name:      "snapshot_refreshes_total",
			Help:      "Successful content snapshot refreshes.",
		}),
		SnapshotWebsites: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "sitetree",
			Name:      "snapshot_websites",
			Help:      "Websites carried by the current snapshot.",
		}),
	}
}

// ObserveResolution records one resolution outcome.
func (m *Metrics) ObserveResolution(website, status string, duplicate bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(website, status).Inc()
	if duplicate {
		m.DuplicatePaths.WithLabelValues(website).Inc()
	}
	m.ResolveDuration.Observe(elapsed.Seconds())
}

// ObserveRefresh records one snapshot refresh.
func (m *Metrics) ObserveRefresh(websites int) {
	if m == nil {
		return
	}
	m.SnapshotRefreshes.Inc()
	m.SnapshotWebsites.Set(float64(websites))
}
