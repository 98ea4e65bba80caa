package metrics

import "github.com/prometheus/client_golang/prometheus"

// Language-model Prometheus metrics.
var (
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signpost",
			Name:      "llm_requests_total",
			Help:      "Total number of language-model requests",
		},
		[]string{"operation", "model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "signpost",
			Name:      "llm_request_duration_seconds",
			Help:      "Language-model request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation", "model"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signpost",
			Name:      "llm_tokens_total",
			Help:      "Total language-model tokens consumed",
		},
		[]string{"operation", "type"},
	)

	ResponseCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signpost",
			Name:      "response_cache_total",
			Help:      "Response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var llmMetricsRegistered bool

// RegisterLLMMetrics registers language-model and cache metrics. Must be called once from main.
func RegisterLLMMetrics() {
	if llmMetricsRegistered {
		return
	}
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(LLMTokensTotal)
	prometheus.MustRegister(ResponseCacheTotal)
	llmMetricsRegistered = true
}
