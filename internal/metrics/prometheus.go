package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Brokerage tool metrics
	ToolInvocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minerva_tool_invocations_total",
			Help: "Total number of brokerage tool invocations",
		},
		[]string{"endpoint", "status"}, // status: success|transport|malformed|timeout|missing_parameter|invalid|auth
	)

	ToolLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "minerva_tool_latency_seconds",
			Help:    "Brokerage tool invocation latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	ContinuationPages = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "minerva_continuation_pages",
			Help:    "Number of pages fetched per continuation chain",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
		},
		[]string{"endpoint"},
	)

	// Auth metrics
	TokenAcquisitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minerva_token_acquisitions_total",
			Help: "Total number of access token acquisitions",
		},
		[]string{"status"}, // status: success|missing_credentials|transport|rejected
	)

	// Search fan-out metrics
	SearchQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minerva_search_queries_total",
			Help: "Total number of search sub-queries dispatched",
		},
		[]string{"group", "status"}, // status: success|error
	)

	SearchFanoutDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "minerva_search_fanout_duration_seconds",
			Help:    "Wall-clock duration of one full search fan-out cycle",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"status"}, // status: complete|partial
	)

	// Router metrics
	IntentDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minerva_intent_decisions_total",
			Help: "Total number of intent routing decisions",
		},
		[]string{"intent", "classifier"}, // classifier: rules|llm
	)

	// Report metrics
	ReportsAssembled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minerva_reports_assembled_total",
			Help: "Total number of reports assembled",
		},
		[]string{"intent", "status"}, // status: success|partial|error
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(ToolInvocations)
	prometheus.MustRegister(ToolLatency)
	prometheus.MustRegister(ContinuationPages)

	prometheus.MustRegister(TokenAcquisitions)

	prometheus.MustRegister(SearchQueries)
	prometheus.MustRegister(SearchFanoutDuration)

	prometheus.MustRegister(IntentDecisions)
	prometheus.MustRegister(ReportsAssembled)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordToolInvocation records one brokerage tool call
func RecordToolInvocation(endpoint, status string, latency time.Duration) {
	ToolInvocations.WithLabelValues(endpoint, status).Inc()
	ToolLatency.WithLabelValues(endpoint).Observe(latency.Seconds())
}

// RecordContinuation records the page count of a finished continuation chain
func RecordContinuation(endpoint string, pages int) {
	ContinuationPages.WithLabelValues(endpoint).Observe(float64(pages))
}

// RecordTokenAcquisition records an auth attempt outcome
func RecordTokenAcquisition(status string) {
	TokenAcquisitions.WithLabelValues(status).Inc()
}
