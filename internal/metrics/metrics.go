// Package metrics exposes Prometheus instrumentation for the simulator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the collectors for one server instance
type Registry struct {
	registry *prometheus.Registry

	SnapshotsTotal      *prometheus.CounterVec
	UpdatesTotal        *prometheus.CounterVec
	RecomputeDuration   prometheus.Histogram
	NetworksLive        prometheus.Gauge
	PersistenceFailures prometheus.Counter
	SSEClients          prometheus.Gauge
}

// NewRegistry creates a registry with all collectors registered
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.SnapshotsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netpulse_snapshots_total",
			Help: "Total number of snapshot requests served",
		},
		[]string{"network", "status"},
	)

	r.UpdatesTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netpulse_updates_total",
			Help: "Total number of diff update requests served",
		},
		[]string{"network", "status"},
	)

	r.RecomputeDuration = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netpulse_recompute_duration_seconds",
			Help:    "Time spent recomputing a network's metric state",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	r.NetworksLive = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "netpulse_networks_live",
			Help: "Number of networks with live in-process state",
		},
	)

	r.PersistenceFailures = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "netpulse_persistence_failures_total",
			Help: "Durable history writes that were dropped or failed",
		},
	)

	r.SSEClients = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "netpulse_sse_clients",
			Help: "Connected SSE clients",
		},
	)

	return r
}

// RecordOperation records one snapshot or update request
func (r *Registry) RecordOperation(op, network, status string, duration time.Duration) {
	switch op {
	case "snapshot":
		r.SnapshotsTotal.WithLabelValues(network, status).Inc()
	case "update":
		r.UpdatesTotal.WithLabelValues(network, status).Inc()
	}
	r.RecomputeDuration.Observe(duration.Seconds())
}

// Gatherer returns the underlying registry for the /metrics handler
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
