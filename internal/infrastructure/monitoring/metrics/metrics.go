// Package metrics registers and exposes the engine's Prometheus
// instrumentation.  Components receive a *Metrics via constructor injection;
// NewNop returns an instance backed by a private registry so tests and
// library embedders that do not scrape pay no wiring cost.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all engine-level collectors.
type Metrics struct {
	// SourceAttempts counts cascade steps by source and outcome
	// ("ok", "not_3d", "error").
	SourceAttempts *prometheus.CounterVec

	// CacheHits / CacheMisses count detection-cache accesses by backend.
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// DetectionDuration observes end-to-end functional-group detection time.
	DetectionDuration prometheus.Histogram

	// ConversionDuration observes molfile → PDB conversion time.
	ConversionDuration prometheus.Histogram

	// BondsDropped counts bond lines rejected during molfile parsing.
	BondsDropped prometheus.Counter

	// PatternCompileFailures counts patterns skipped after both the primary
	// and fallback expressions failed to compile.
	PatternCompileFailures prometheus.Counter
}

var defaultDurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}

// New registers all engine collectors on reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SourceAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chemnorm_source_attempts_total",
			Help: "Conformer cascade attempts by source and outcome",
		}, []string{"source", "outcome"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chemnorm_cache_hits_total",
			Help: "Detection cache hits by backend",
		}, []string{"backend"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chemnorm_cache_misses_total",
			Help: "Detection cache misses by backend",
		}, []string{"backend"}),
		DetectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chemnorm_detection_duration_seconds",
			Help:    "Functional-group detection duration",
			Buckets: defaultDurationBuckets,
		}),
		ConversionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chemnorm_conversion_duration_seconds",
			Help:    "Molfile to PDB conversion duration",
			Buckets: defaultDurationBuckets,
		}),
		BondsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chemnorm_bonds_dropped_total",
			Help: "Bond lines rejected during molfile parsing",
		}),
		PatternCompileFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chemnorm_pattern_compile_failures_total",
			Help: "Patterns skipped after primary and fallback compile failed",
		}),
	}

	reg.MustRegister(
		m.SourceAttempts,
		m.CacheHits,
		m.CacheMisses,
		m.DetectionDuration,
		m.ConversionDuration,
		m.BondsDropped,
		m.PatternCompileFailures,
	)
	return m
}

// NewNop returns Metrics registered on a throwaway registry.  All collectors
// are live (safe to call) but never exported.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
