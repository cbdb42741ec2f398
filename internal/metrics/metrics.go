// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_submissions_total",
			Help: "Total number of feedback submission attempts",
		},
		[]string{"status"},
	)

	AnswersRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_answers_recorded_total",
			Help: "Total number of individual answers durably recorded",
		},
	)

	ResponseScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedback_response_score",
			Help:    "Distribution of numeric response scores",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
		[]string{"subject"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
