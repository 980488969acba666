package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ModerationVerdicts counts moderation verdicts by source and flag.
	ModerationVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_moderation_verdicts_total",
		Help: "Total moderation verdicts by source and flag",
	}, []string{"source", "flag"})

	// ClassifierFallbacks counts moderation providers that failed and were
	// skipped in favor of the next provider in the chain.
	ClassifierFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_classifier_fallback_total",
		Help: "Total moderation provider failures by provider",
	}, []string{"provider"})

	// ReviewResolutions counts review queue decisions by outcome.
	ReviewResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_review_resolutions_total",
		Help: "Total review queue resolutions by decision",
	}, []string{"decision"})
)
