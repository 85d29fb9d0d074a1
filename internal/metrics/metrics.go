package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planify_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planify_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	ConversationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "planify_conversations_created_total",
			Help: "Total conversations created, explicit or bootstrap",
		},
	)

	Messages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planify_messages_total",
			Help: "Total messages appended to conversations",
		},
		[]string{"origin"}, // "user" or "bot"
	)

	// Answering service metrics
	AnswerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planify_answer_requests_total",
			Help: "Total requests to the answering service",
		},
		[]string{"outcome"}, // "ok" or "error"
	)

	AnswerLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planify_answer_latency_seconds",
			Help:    "Answering service request latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planify_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)
)
