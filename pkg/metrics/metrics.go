// Package metrics provides registry-local Prometheus collectors for
// scan and probe accounting. The engine records every outcome here;
// embedding hosts decide whether to expose the registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for ScansTotal.
const (
	OutcomeApplied  = "applied"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// Metrics bundles the collectors on their own registry so embedding
// this engine never collides with a host process's default registry.
type Metrics struct {
	registry *prometheus.Registry

	// ScansTotal counts scan submissions by outcome.
	ScansTotal *prometheus.CounterVec

	// ScanSeconds observes wall time per scan, including apply.
	ScanSeconds prometheus.Histogram

	// SendsTotal counts live-probe sends by result.
	SendsTotal *prometheus.CounterVec

	// SlotsLoaded tracks the current slot collection size.
	SlotsLoaded prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ScansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "unveilctl",
			Name:      "scans_total",
			Help:      "Scan submissions by outcome (applied, degraded, failed).",
		}, []string{"outcome"}),
		ScanSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "unveilctl",
			Name:      "scan_duration_seconds",
			Help:      "Wall time per scan including report apply.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		SendsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "unveilctl",
			Name:      "probe_sends_total",
			Help:      "Live-probe sends by result (ok, error).",
		}, []string{"result"}),
		SlotsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "unveilctl",
			Name:      "slots_loaded",
			Help:      "Slots in the current live collection.",
		}),
	}
	m.registry.MustRegister(m.ScansTotal, m.ScanSeconds, m.SendsTotal, m.SlotsLoaded)
	return m
}

// Registry returns the backing registry for exposition.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
