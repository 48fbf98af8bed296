// Package metrics exposes Prometheus collectors for interview activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "interview_coach"

var (
	InterviewsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interviews_started_total",
		Help:      "Interviews started, including resets.",
	})

	InterviewsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interviews_completed_total",
		Help:      "Interviews that reached the complete state.",
	})

	InterviewsResumed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interviews_resumed_total",
		Help:      "Successful resumptions of stored interviews.",
	})

	ResponsesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "responses_submitted_total",
		Help:      "Answers accepted across all interviews.",
	})

	// Rejections counts refused operations. Labels: reason (not_found, invalid_state)
	Rejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rejections_total",
		Help:      "Operations refused because of missing or completed interviews.",
	}, []string{"reason"})

	ResponseScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "response_score",
		Help:      "Distribution of per-answer scores.",
		Buckets:   prometheus.LinearBuckets(1, 1, 10),
	})

	// SideEffectFailures counts event-log and archive writes that failed.
	// Labels: kind (event, archive)
	SideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "side_effect_failures_total",
		Help:      "Non-fatal failures writing events or transcript archives.",
	}, []string{"kind"})
)
