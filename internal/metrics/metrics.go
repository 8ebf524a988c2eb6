// Sentinel - Survey Response Fraud Detection Engine
// Copyright 2026 Surbee Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/surbee/sentinel

// Package metrics exposes Prometheus instrumentation for the assessment
// pipeline: per-request API latency, detector flag rates, external
// sub-score availability, circuit breaker state, and ring store activity.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Assessment pipeline metrics.
	AssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessments_total",
			Help: "Total number of fraud assessments by resulting risk level",
		},
		[]string{"risk_level"},
	)

	AssessmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assessment_duration_seconds",
			Help:    "End-to-end assessment duration including external calls",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	FraudScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assessment_fraud_score",
			Help:    "Distribution of ensemble fraud scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	// Detector bank metrics.
	DetectorFlags = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detector_flags_total",
			Help: "Total suspicious flags emitted per check",
		},
		[]string{"check", "category"},
	)

	DetectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "detection_duration_seconds",
			Help:    "Detector bank evaluation duration",
			Buckets: prometheus.DefBuckets,
		},
	)

	// External sub-score service metrics.
	ExternalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "external_requests_total",
			Help: "External analysis requests by service and outcome",
		},
		[]string{"service", "outcome"}, // "success", "failure", "rejected"
	)

	ExternalRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "external_request_duration_seconds",
			Help:    "External analysis call duration",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"service"},
	)

	SubScoreUnavailable = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ensemble_subscore_unavailable_total",
			Help: "Assessments that proceeded without a given sub-score",
		},
		[]string{"model"},
	)

	// Circuit breaker metrics for external services.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// API endpoint metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Fingerprint ring store metrics.
	RingStoreLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringstore_lookups_total",
			Help: "Fingerprint history lookups by outcome",
		},
		[]string{"outcome"}, // "hit", "miss", "error"
	)

	RingStoreSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ringstore_tracked_sessions",
			Help: "Sessions currently tracked in the fingerprint history window",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordAssessment records one completed assessment.
func RecordAssessment(riskLevel string, score float64, duration time.Duration) {
	AssessmentsTotal.WithLabelValues(riskLevel).Inc()
	FraudScore.Observe(score)
	AssessmentDuration.Observe(duration.Seconds())
}

// RecordExternalRequest records one external analysis call.
func RecordExternalRequest(service, outcome string, duration time.Duration) {
	ExternalRequests.WithLabelValues(service, outcome).Inc()
	ExternalRequestDuration.WithLabelValues(service).Observe(duration.Seconds())
}
