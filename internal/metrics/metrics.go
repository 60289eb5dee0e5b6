// Package metrics exposes Prometheus instrumentation for the reconciler.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives reconciler events. The reconciler depends on this
// interface rather than on prometheus directly so tests can pass Noop.
type Recorder interface {
	ServerCreated()
	ServerPoweredOn()
	ProbeFailure(probe string)
	ConvergeDuration(d time.Duration)
}

// Noop discards all events.
type Noop struct{}

func (Noop) ServerCreated()                 {}
func (Noop) ServerPoweredOn()               {}
func (Noop) ProbeFailure(string)            {}
func (Noop) ConvergeDuration(time.Duration) {}

// PrometheusRecorder records events into Prometheus collectors.
type PrometheusRecorder struct {
	created   prometheus.Counter
	poweredOn prometheus.Counter
	probeFail *prometheus.CounterVec
	converge  prometheus.Histogram
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder creates a recorder and registers its collectors
// with the given registerer.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecsfleet_servers_created_total",
			Help: "Servers created by the reconciler.",
		}),
		poweredOn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecsfleet_servers_powered_on_total",
			Help: "Stopped servers powered back on by the reconciler.",
		}),
		probeFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ecsfleet_probe_failures_total",
			Help: "Readiness probe failures observed by the stability gate.",
		}, []string{"probe"}),
		converge: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ecsfleet_converge_duration_seconds",
			Help:    "Wall-clock duration of Converge calls.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
	reg.MustRegister(r.created, r.poweredOn, r.probeFail, r.converge)
	return r
}

func (r *PrometheusRecorder) ServerCreated()   { r.created.Inc() }
func (r *PrometheusRecorder) ServerPoweredOn() { r.poweredOn.Inc() }

func (r *PrometheusRecorder) ProbeFailure(probe string) {
	r.probeFail.WithLabelValues(probe).Inc()
}

func (r *PrometheusRecorder) ConvergeDuration(d time.Duration) {
	r.converge.Observe(d.Seconds())
}
