// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/trending", "200"))

	RecordAPIRequest("GET", "/api/v1/trending", "200", 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/trending", "200"))
	if after != before+1 {
		t.Errorf("counter = %f, want %f", after, before+1)
	}
}

func TestRecordGraphQuery(t *testing.T) {
	errBefore := testutil.ToFloat64(GraphQueryErrors.WithLabelValues("find_similar_users"))

	RecordGraphQuery("find_similar_users", 5*time.Millisecond, nil)
	if got := testutil.ToFloat64(GraphQueryErrors.WithLabelValues("find_similar_users")); got != errBefore {
		t.Errorf("error counter moved on success: %f", got)
	}

	RecordGraphQuery("find_similar_users", 5*time.Millisecond, errors.New("boom"))
	if got := testutil.ToFloat64(GraphQueryErrors.WithLabelValues("find_similar_users")); got != errBefore+1 {
		t.Errorf("error counter = %f, want %f", got, errBefore+1)
	}
}

func TestRecordRecommendationsServed(t *testing.T) {
	servedBefore := testutil.ToFloat64(RecommendationsServed.WithLabelValues("collaborative"))
	emptyBefore := testutil.ToFloat64(RecommendationsEmpty)

	RecordRecommendationsServed("collaborative", 5)
	RecordRecommendationsServed("collaborative", 0)

	if got := testutil.ToFloat64(RecommendationsServed.WithLabelValues("collaborative")); got != servedBefore+2 {
		t.Errorf("served counter = %f, want %f", got, servedBefore+2)
	}
	if got := testutil.ToFloat64(RecommendationsEmpty); got != emptyBefore+1 {
		t.Errorf("empty counter = %f, want %f", got, emptyBefore+1)
	}
}

func TestRecordEventCounters(t *testing.T) {
	topic := "orders.created"
	pubBefore := testutil.ToFloat64(EventsPublished.WithLabelValues(topic))
	procBefore := testutil.ToFloat64(EventsProcessed.WithLabelValues(topic))
	failBefore := testutil.ToFloat64(EventsFailed.WithLabelValues(topic))

	RecordEventPublished(topic)
	RecordEventProcessed(topic)
	RecordEventFailed(topic)

	if got := testutil.ToFloat64(EventsPublished.WithLabelValues(topic)); got != pubBefore+1 {
		t.Errorf("published = %f, want %f", got, pubBefore+1)
	}
	if got := testutil.ToFloat64(EventsProcessed.WithLabelValues(topic)); got != procBefore+1 {
		t.Errorf("processed = %f, want %f", got, procBefore+1)
	}
	if got := testutil.ToFloat64(EventsFailed.WithLabelValues(topic)); got != failBefore+1 {
		t.Errorf("failed = %f, want %f", got, failBefore+1)
	}
}
