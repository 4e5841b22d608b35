package store

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the Prometheus-backed counterpart to the teacher's atomic
// cache.Metrics: hit/miss/eviction/invalidation counters a caller can wire
// into a registry, or leave unregistered for tests.
type Metrics struct {
	hits         prometheus.Counter
	misses       prometheus.Counter
	evictions    prometheus.Counter
	invalidated  prometheus.Counter
}

// NewMetrics builds a Metrics instance. If reg is non-nil, the counters are
// registered under it; a nil registerer is valid and simply disables
// registration without disabling counting, which is what the package's own
// tests rely on.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackcache_store_hits_total",
			Help: "Cache reads that were served from the local store.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackcache_store_misses_total",
			Help: "Cache reads that missed the local store.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackcache_store_evictions_total",
			Help: "Entries removed by the eviction policy under capacity pressure.",
		}),
		invalidated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trackcache_store_invalidated_total",
			Help: "Database keys whose dependent entries were removed by server-driven invalidation.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.hits, m.misses, m.evictions, m.invalidated)
	}
	return m
}

func (m *Metrics) Hits() prometheus.Counter        { return m.hits }
func (m *Metrics) Misses() prometheus.Counter       { return m.misses }
func (m *Metrics) Evictions() prometheus.Counter    { return m.evictions }
func (m *Metrics) Invalidated() prometheus.Counter  { return m.invalidated }
