package memory

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for a Store.
type Metrics struct {
	Hits        prometheus.Counter
	Misses      prometheus.Counter
	Evictions   prometheus.Counter
	Expirations prometheus.Counter
	Entries     prometheus.Gauge
}

// NewMetrics creates the cache collectors and registers them with reg.
// A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cinema",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of cache hits",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cinema",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of cache misses, expired entries included",
		}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cinema",
			Subsystem: "cache",
			Name:      "capacity_evictions_total",
			Help:      "Total number of entries removed to make room for a new key",
		}),
		Expirations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cinema",
			Subsystem: "cache",
			Name:      "expirations_total",
			Help:      "Total number of entries removed by the expiry sweep",
		}),
		Entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cinema",
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Current number of cache entries",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Hits, m.Misses, m.Evictions, m.Expirations, m.Entries)
	}
	return m
}
