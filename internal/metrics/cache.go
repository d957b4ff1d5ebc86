// Package metrics publishes query cache counters through prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespaceLabel = "namespace"

// CacheRecorder counts query cache activity per cache namespace.
type CacheRecorder struct {
	reads         *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchErrors   *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// NewCacheRecorder creates the cache counters and registers them on reg.
// A nil reg leaves the counters unregistered, which is handy in tests.
func NewCacheRecorder(reg prometheus.Registerer) (*CacheRecorder, error) {
	r := &CacheRecorder{
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scm_cache_reads_total",
			Help: "Query cache reads by namespace.",
		}, []string{namespaceLabel}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scm_cache_fetches_total",
			Help: "Backend fetches triggered by query cache misses.",
		}, []string{namespaceLabel}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scm_cache_fetch_errors_total",
			Help: "Backend fetches that returned an error.",
		}, []string{namespaceLabel}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scm_cache_invalidations_total",
			Help: "Cache entries marked stale by invalidation.",
		}, []string{namespaceLabel}),
	}

	if reg == nil {
		return r, nil
	}
	for _, c := range r.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *CacheRecorder) collectors() []prometheus.Collector {
	return []prometheus.Collector{r.reads, r.fetches, r.fetchErrors, r.invalidations}
}

// Read counts a cache read.
func (r *CacheRecorder) Read(namespace string) {
	r.reads.WithLabelValues(namespace).Inc()
}

// Fetch counts a backend fetch.
func (r *CacheRecorder) Fetch(namespace string) {
	r.fetches.WithLabelValues(namespace).Inc()
}

// FetchError counts a failed backend fetch.
func (r *CacheRecorder) FetchError(namespace string) {
	r.fetchErrors.WithLabelValues(namespace).Inc()
}

// Invalidation counts entries marked stale.
func (r *CacheRecorder) Invalidation(namespace string, entries int) {
	if entries <= 0 {
		return
	}
	r.invalidations.WithLabelValues(namespace).Add(float64(entries))
}

// Reads returns the reads counter, mostly for tests.
func (r *CacheRecorder) Reads() *prometheus.CounterVec { return r.reads }

// Fetches returns the fetches counter.
func (r *CacheRecorder) Fetches() *prometheus.CounterVec { return r.fetches }

// FetchErrors returns the fetch errors counter.
func (r *CacheRecorder) FetchErrors() *prometheus.CounterVec { return r.fetchErrors }

// Invalidations returns the invalidations counter.
func (r *CacheRecorder) Invalidations() *prometheus.CounterVec { return r.invalidations }
