package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	PipelineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Name:      "pipeline_requests_total",
			Help:      "Total pipeline runs by terminal outcome",
		},
		[]string{"outcome"}, // "answered" / "no_result" / "failed"
	)

	PipelineStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "concierge",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.25, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"}, // "cache_check" / "decompose" / "retrieve" / "synthesize" / "cache_write"
	)

	AnswerCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Name:      "answer_cache_total",
			Help:      "Answer cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	AdapterFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Name:      "adapter_failures_total",
			Help:      "Degraded adapter calls by adapter name",
		},
		[]string{"adapter"}, // "cache" / "search" / "index"
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Name:      "llm_requests_total",
			Help:      "Total LLM requests",
		},
		[]string{"op", "status"}, // op: "decompose" / "synthesize" / "embed"
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "concierge",
			Name:      "llm_request_duration_seconds",
			Help:      "LLM request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"op"},
	)
)

// RegisterPipelineMetrics registers pipeline metrics explicitly (no init()),
// so tests importing this package do not pollute the default registry.
func RegisterPipelineMetrics() {
	prometheus.MustRegister(
		PipelineRequestsTotal,
		PipelineStageDuration,
		AnswerCacheTotal,
		AdapterFailuresTotal,
		LLMRequestsTotal,
		LLMRequestDuration,
	)
}
