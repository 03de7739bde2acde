package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels loads that produced a normalized table.
	OutcomeSuccess = "success"
	// OutcomeError labels loads that failed at fetch or normalize.
	OutcomeError = "error"
)

var (
	loadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nbastats",
			Name:      "loads_total",
			Help:      "Season loads that reached the table source, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	loadDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nbastats",
			Name:      "load_seconds",
			Help:      "Season load latency in seconds, including fetch and normalization.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 30},
		},
	)

	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nbastats",
			Name:      "cache_hits_total",
			Help:      "Season loads served from the in-memory cache.",
		},
	)
)

// Register attaches nbastats collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		loadsTotal,
		loadDurationSeconds,
		cacheHitsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveLoad records a load duration and outcome label.
func ObserveLoad(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	loadsTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	loadDurationSeconds.Observe(duration.Seconds())
}

// CacheHit counts a load served from the cache.
func CacheHit() { cacheHitsTotal.Inc() }
