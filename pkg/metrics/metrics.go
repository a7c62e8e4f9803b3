// Package metrics defines the telemetry sink the network client reports
// into. The sink is fire-and-forget: implementations must never block or
// fail the caller.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder consumes client-side events. All methods must be safe for
// concurrent use and cheap enough to call on the request path.
type Recorder interface {
	// RequestDone reports a finished RPC call with its duration and outcome.
	RequestDone(method string, took time.Duration, success bool)
	// CacheHit reports a read answered from the local cache.
	CacheHit(method string)
	// CacheMiss reports a read that had to go to the network.
	CacheMiss(method string)
	// BreakerStateChanged reports a circuit breaker transition.
	BreakerStateChanged(state string)
}

// NopRecorder is a Recorder that drops everything. It's the default when no
// telemetry is configured.
type NopRecorder struct{}

// RequestDone implements the Recorder interface.
func (NopRecorder) RequestDone(string, time.Duration, bool) {}

// CacheHit implements the Recorder interface.
func (NopRecorder) CacheHit(string) {}

// CacheMiss implements the Recorder interface.
func (NopRecorder) CacheMiss(string) {}

// BreakerStateChanged implements the Recorder interface.
func (NopRecorder) BreakerStateChanged(string) {}

// PrometheusRecorder reports events into Prometheus collectors.
type PrometheusRecorder struct {
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	cache     *prometheus.CounterVec
	breaker   *prometheus.CounterVec
}

// NewPrometheusRecorder creates a PrometheusRecorder registering its
// collectors with the given registerer (use prometheus.DefaultRegisterer for
// the common case).
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "halcyon",
				Subsystem: "rpcclient",
				Name:      "requests_total",
				Help:      "Number of RPC requests by method and outcome.",
			},
			[]string{"method", "outcome"},
		),
		durations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "halcyon",
				Subsystem: "rpcclient",
				Name:      "request_duration_seconds",
				Help:      "RPC request durations by method.",
			},
			[]string{"method"},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "halcyon",
				Subsystem: "rpcclient",
				Name:      "cache_requests_total",
				Help:      "Cache lookups by method and outcome.",
			},
			[]string{"method", "outcome"},
		),
		breaker: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "halcyon",
				Subsystem: "rpcclient",
				Name:      "breaker_transitions_total",
				Help:      "Circuit breaker transitions by resulting state.",
			},
			[]string{"state"},
		),
	}
	reg.MustRegister(r.requests, r.durations, r.cache, r.breaker)
	return r
}

// RequestDone implements the Recorder interface.
func (r *PrometheusRecorder) RequestDone(method string, took time.Duration, success bool) {
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	r.requests.WithLabelValues(method, outcome).Inc()
	r.durations.WithLabelValues(method).Observe(took.Seconds())
}

// CacheHit implements the Recorder interface.
func (r *PrometheusRecorder) CacheHit(method string) {
	r.cache.WithLabelValues(method, "hit").Inc()
}

// CacheMiss implements the Recorder interface.
func (r *PrometheusRecorder) CacheMiss(method string) {
	r.cache.WithLabelValues(method, "miss").Inc()
}

// BreakerStateChanged implements the Recorder interface.
func (r *PrometheusRecorder) BreakerStateChanged(state string) {
	r.breaker.WithLabelValues(state).Inc()
}
