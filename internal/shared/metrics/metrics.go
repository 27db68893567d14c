package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exposed on /metrics.
var Registry = prometheus.NewRegistry()

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	reportsBuiltTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_built_total",
			Help: "Total reports built from backend results",
		},
		[]string{"source"},
	)
	finalScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "report_final_score",
			Help:    "Distribution of derived final scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)
	matchScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "report_match_score",
			Help:    "Distribution of derived match scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	backendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Requests sent to the remote analysis service by operation and status code",
		},
		[]string{"operation", "status"},
	)
	backendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Remote analysis service request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"operation"},
	)
	pollAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_poll_attempts_total",
			Help: "Analysis status polls by observed status",
		},
		[]string{"status"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequestsTotal,
		httpRequestDuration,
		reportsBuiltTotal,
		finalScore,
		matchScore,
		backendRequestsTotal,
		backendRequestDuration,
		pollAttemptsTotal,
	)
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveReport records a built report and its scores.
func ObserveReport(source string, final, match int) {
	reportsBuiltTotal.WithLabelValues(source).Inc()
	finalScore.Observe(float64(final))
	matchScore.Observe(float64(match))
}

// ObserveBackendRequest records one call to the remote analysis service. A
// status of 0 means the request failed before a response arrived.
func ObserveBackendRequest(operation string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	backendRequestsTotal.WithLabelValues(operation, label).Inc()
	backendRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// IncPollAttempt counts one status poll.
func IncPollAttempt(status string) {
	pollAttemptsTotal.WithLabelValues(status).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry}))
}
