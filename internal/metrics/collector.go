// Package metrics exposes simulation counters in Prometheus format. The
// collector plugs into the world as a set of lifecycle hooks and serves
// its own registry over HTTP.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/rigsim/internal/world"
)

type Collector struct {
	reg      *prometheus.Registry
	steps    prometheus.Counter
	substeps prometheus.Counter
	duration prometheus.Histogram
	bodies   prometheus.Gauge
	loads    prometheus.Counter
	failures prometheus.Counter
}

func New() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rigsim_steps_total",
			Help: "Simulation steps completed.",
		}),
		substeps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rigsim_substeps_total",
			Help: "Integrator sub-steps taken.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rigsim_step_duration_seconds",
			Help:    "Wall-clock time per simulation step.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 2, 14),
		}),
		bodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rigsim_bodies",
			Help: "Mobilized bodies in the current system.",
		}),
		loads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rigsim_model_loads_total",
			Help: "Models loaded into the world.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rigsim_step_failures_total",
			Help: "Steps that ended in an integration error.",
		}),
	}
	c.reg.MustRegister(c.steps, c.substeps, c.duration, c.bodies, c.loads, c.failures)
	return c
}

// Hooks adapts the collector to the world's lifecycle callbacks.
func (c *Collector) Hooks() world.Hooks {
	return world.Hooks{
		OnLoad: func(string, int) { c.loads.Inc() },
		OnStep: func(s world.StepStats) {
			c.steps.Inc()
			c.substeps.Add(float64(s.Substeps))
			c.duration.Observe(s.Elapsed.Seconds())
			c.bodies.Set(float64(s.Bodies))
		},
		OnError: func(error) { c.failures.Inc() },
	}
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
