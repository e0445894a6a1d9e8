package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query outcomes recorded by the question bank service.
const (
	OutcomeMatch        = "match"
	OutcomeMiss         = "miss"
	OutcomeMissingTitle = "missing_title"
	OutcomeError        = "error"
)

var (
	registry = prometheus.NewRegistry()

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route", "status"},
	)
	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "question_bank_queries_total",
			Help: "Question lookups by outcome.",
		},
		[]string{"outcome"},
	)
	bankLoadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "question_bank_load_duration_seconds",
			Help:    "Time spent reading the question bank from its source.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "result"},
	)
)

func init() {
	registry.MustRegister(httpRequestsTotal, httpRequestDuration, queriesTotal, bankLoadDuration)
}

// RecordRequest records one served HTTP request.
func RecordRequest(method, route string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordQuery counts a lookup outcome.
func RecordQuery(outcome string) {
	queriesTotal.WithLabelValues(outcome).Inc()
}

// ObserveBankLoad records how long a source took to produce the bank.
func ObserveBankLoad(source string, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	bankLoadDuration.WithLabelValues(source, result).Observe(duration.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	default:
		return "unknown"
	}
}
