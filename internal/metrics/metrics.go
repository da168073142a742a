// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

// Package metrics provides Prometheus instrumentation for the API
// surface, the graph store, and event processing. All collectors are
// registered with the default registry via promauto and served on
// /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Graph store metrics
	GraphQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graph_query_duration_seconds",
			Help:    "Duration of Neo4j queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	GraphQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graph_query_errors_total",
			Help: "Total number of Neo4j query errors",
		},
		[]string{"operation"},
	)

	// Recommendation metrics
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total recommendation sets served, by algorithm",
		},
		[]string{"algorithm"},
	)

	RecommendationsEmpty = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_empty_total",
			Help: "Total recommendation requests that produced an empty set",
		},
	)

	// Event processing metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total events published to NATS, by topic",
		},
		[]string{"topic"},
	)

	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_processed_total",
			Help: "Total events processed successfully, by topic",
		},
		[]string{"topic"},
	)

	EventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_failed_total",
			Help: "Total events that failed processing, by topic",
		},
		[]string{"topic"},
	)
)

// TrackActiveRequest adjusts the active-request gauge. Call with true
// when a request starts and false when it completes.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordGraphQuery records a graph store query metric.
func RecordGraphQuery(operation string, duration time.Duration, err error) {
	GraphQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		GraphQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordRecommendationsServed records a served recommendation set.
func RecordRecommendationsServed(algorithm string, count int) {
	RecommendationsServed.WithLabelValues(algorithm).Inc()
	if count == 0 {
		RecommendationsEmpty.Inc()
	}
}

// RecordEventPublished records a successful NATS publish.
func RecordEventPublished(topic string) {
	EventsPublished.WithLabelValues(topic).Inc()
}

// RecordEventProcessed records a successfully processed event.
func RecordEventProcessed(topic string) {
	EventsProcessed.WithLabelValues(topic).Inc()
}

// RecordEventFailed records a failed event.
func RecordEventFailed(topic string) {
	EventsFailed.WithLabelValues(topic).Inc()
}
