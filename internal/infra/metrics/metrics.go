package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "events_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_status_transitions_total",
		Help: "Event status transitions by target status and outcome.",
	}, []string{"target", "outcome"})

	DeadlineClosesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "events_deadline_closes_total",
		Help: "Application periods closed by the deadline scheduler.",
	})
)

// RegisterArmedTimers exposes the scheduler's armed-timer count as a gauge.
func RegisterArmedTimers(armed func() int) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "events_deadline_timers_armed",
		Help: "Deadline timers currently armed.",
	}, func() float64 { return float64(armed()) })
}

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
