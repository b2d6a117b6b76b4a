// Package metrics holds the Prometheus collectors of the ledger.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels.
const (
	ResultSuccess   = "success"
	ResultDuplicate = "duplicate"
	ResultError     = "error"
)

// PostingRecorder observes posting engine operations.
type PostingRecorder interface {
	ObservePosting(operation string, result string, elapsed time.Duration)
}

// Metrics groups the collectors registered by New.
type Metrics struct {
	postingsTotal    *prometheus.CounterVec
	postingDuration  *prometheus.HistogramVec
	eventPublishErrs prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		postingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_postings_total",
				Help: "Total number of posting engine operations",
			},
			[]string{"operation", "result"},
		),
		postingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_posting_duration_seconds",
				Help:    "Duration of posting engine operations",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"operation"},
		),
		eventPublishErrs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_event_publish_errors_total",
				Help: "Total number of ledger events that failed to publish",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(m.postingsTotal, m.postingDuration, m.eventPublishErrs, m.httpRequests, m.httpDuration)
	return m
}

func (m *Metrics) ObservePosting(operation string, result string, elapsed time.Duration) {
	m.postingsTotal.WithLabelValues(operation, result).Inc()
	m.postingDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// EventPublishFailed counts an event that could not be delivered.
func (m *Metrics) EventPublishFailed() {
	m.eventPublishErrs.Inc()
}

// ObserveHTTP records one served request. route is the matched route template.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
