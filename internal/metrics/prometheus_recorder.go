package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "voxtype"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	lines           prom.Counter
	syntheticStops  prom.Counter
	reconnects      prom.Counter
	spawnFailures   prom.Counter
	activeConsumers prom.Gauge
}

// NewPrometheusRecorder constructs and registers the status bus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		lines: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "status_bus",
			Name:      "lines_total",
			Help:      "Status lines read from the upstream follower and fanned out",
		}),
		syntheticStops: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "status_bus",
			Name:      "synthetic_stops_total",
			Help:      "Stopped records injected after the upstream follower exited",
		}),
		reconnects: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "status_bus",
			Name:      "reconnects_total",
			Help:      "Upstream follower restarts after a stream ended",
		}),
		spawnFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "status_bus",
			Name:      "spawn_failures_total",
			Help:      "Failed attempts to start the upstream follower",
		}),
		activeConsumers: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Subsystem: "status_bus",
			Name:      "active_consumers",
			Help:      "Consumers still accepting status lines",
		}),
	}
	reg.MustRegister(pr.lines, pr.syntheticStops, pr.reconnects, pr.spawnFailures, pr.activeConsumers)
	return pr
}

func (p *PrometheusRecorder) IncLinesFannedOut() { p.lines.Inc() }

func (p *PrometheusRecorder) IncSyntheticStops() { p.syntheticStops.Inc() }

func (p *PrometheusRecorder) IncReconnects() { p.reconnects.Inc() }

func (p *PrometheusRecorder) IncSpawnFailures() { p.spawnFailures.Inc() }

func (p *PrometheusRecorder) SetActiveConsumers(n int) { p.activeConsumers.Set(float64(n)) }
