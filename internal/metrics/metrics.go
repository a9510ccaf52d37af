// Package metrics exports visit endpoint outcomes to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts visit endpoint outcomes on its own registry.
type Recorder struct {
	requests *prometheus.CounterVec
	registry *prometheus.Registry
}

// New returns a Recorder with visits_requests_total registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "visits_requests_total",
		Help: "Visit endpoint requests by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(requests)
	return &Recorder{requests: requests, registry: reg}
}

// Observe counts one request with the given outcome.
func (r *Recorder) Observe(outcome string) {
	r.requests.WithLabelValues(outcome).Inc()
}

// Handler serves the Recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
