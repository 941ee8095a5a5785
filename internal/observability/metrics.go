package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce      sync.Once
	requestsTotal     *prometheus.CounterVec
	latencySeconds    *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
	programsSentTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hackdesk_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hackdesk_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hackdesk_errors_total",
			Help: "Total number of API requests that ended in an error status.",
		}, []string{"method", "route", "status"})

		programsSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hackdesk_programs_sent_total",
			Help: "Total number of training programs delivered to project owners.",
		})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal, programsSentTotal)
	})
}

// Requests returns the request counter collector.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency returns the latency histogram collector.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors returns the error counter collector.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// ProgramsSentTotal returns the program delivery counter.
func ProgramsSentTotal() prometheus.Counter {
	RegisterMetrics()
	return programsSentTotal
}
