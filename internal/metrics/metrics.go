package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Acquisition metrics
	ResultsAcquired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "write_result_acquired_total",
		Help: "Total number of write results acquired, by source (hit=reused, miss=allocated)",
	}, []string{"source"})

	// Recycling metrics
	ResultsRecycled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "write_result_recycled_total",
		Help: "Total number of write results recycled",
	})

	PoolDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "write_result_pool_dropped_total",
		Help: "Total number of recycled write results discarded because the pool was full",
	})

	ResultsCopied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "write_result_copies_total",
		Help: "Total number of write result snapshots taken",
	})

	// Misuse diagnostics
	UseAfterRecycle = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "write_result_use_after_recycle_total",
		Help: "Total number of accesses to recycled write results caught by the tracking guard",
	}, []string{"op"})

	// Configuration reload metrics
	ConfigReloadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "write_result_config_reload_errors_total",
		Help: "Total number of configuration reload errors",
	})

	// Pre-resolved children for the acquire hot path
	acquireHit  = ResultsAcquired.WithLabelValues("hit")
	acquireMiss = ResultsAcquired.WithLabelValues("miss")
)

// IncAcquired records where an acquired result came from
func IncAcquired(reused bool) {
	if reused {
		acquireHit.Inc()
		return
	}
	acquireMiss.Inc()
}

// IncUseAfterRecycle increments the guard counter for an operation
func IncUseAfterRecycle(op string) {
	UseAfterRecycle.WithLabelValues(op).Inc()
}
