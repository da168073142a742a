// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPersonalizedRecommendationsDefaultLimit(t *testing.T) {
	store := &mockStore{
		categoryCountsFn: func(string) (map[string]int, error) {
			return map[string]int{"books": 1}, nil
		},
		similarUsersFn: func(string, int) ([]string, error) {
			return []string{"u2"}, nil
		},
		personalizedFn: func(userID string, limit int) ([]CandidateProduct, error) {
			return nil, nil
		},
	}
	svc := NewService(store, testLogger())

	if _, err := svc.PersonalizedRecommendations(context.Background(), "u1", 0); err != nil {
		t.Fatalf("PersonalizedRecommendations() error: %v", err)
	}
	if store.personalizedLimitIn != DefaultRecommendationLimit {
		t.Errorf("limit = %d, want default %d", store.personalizedLimitIn, DefaultRecommendationLimit)
	}
}

func TestPersonalizedRecommendationsLastActiveSuppressed(t *testing.T) {
	store := &mockStore{
		lastActiveFn: func(string) error { return errStore },
		categoryCountsFn: func(string) (map[string]int, error) {
			return map[string]int{"books": 1}, nil
		},
		similarUsersFn: func(string, int) ([]string, error) { return nil, nil },
	}
	svc := NewService(store, testLogger())

	recs, err := svc.PersonalizedRecommendations(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("last-active failure leaked: %v", err)
	}
	if store.lastActiveCalls != 1 {
		t.Errorf("last-active ran %d times, want 1", store.lastActiveCalls)
	}
	if len(recs) != 0 {
		t.Errorf("got %d recommendations, want 0", len(recs))
	}
}

func TestTrendingProductsDefaults(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store, testLogger())

	if _, err := svc.TrendingProducts(context.Background(), 0, 0); err != nil {
		t.Fatalf("TrendingProducts() error: %v", err)
	}
	if store.trendingWindowDays != DefaultTrendingDays {
		t.Errorf("window = %d days, want default %d", store.trendingWindowDays, DefaultTrendingDays)
	}
}

func TestTrendingProductsExplicitWindow(t *testing.T) {
	store := &mockStore{
		trendingFn: func(windowDays, limit int) ([]TrendingProduct, error) {
			if limit != 3 {
				t.Errorf("limit = %d, want 3", limit)
			}
			return []TrendingProduct{{ProductID: "p1", RecentPurchases: 4, TrendScore: 0.4}}, nil
		},
	}
	svc := NewService(store, testLogger())

	trending, err := svc.TrendingProducts(context.Background(), 14, 3)
	if err != nil {
		t.Fatalf("TrendingProducts() error: %v", err)
	}
	if store.trendingWindowDays != 14 {
		t.Errorf("window = %d days, want 14", store.trendingWindowDays)
	}
	if len(trending) != 1 || trending[0].TrendScore != 0.4 {
		t.Errorf("unexpected trending result: %+v", trending)
	}
}

func TestUserHistory(t *testing.T) {
	now := time.Now()
	store := &mockStore{
		purchaseHistoryFn: func(userID string, limit int) ([]HistoryEntry, error) {
			if limit != DefaultHistoryLimit {
				t.Errorf("limit = %d, want default %d", limit, DefaultHistoryLimit)
			}
			return []HistoryEntry{
				{ProductID: "p2", PurchaseDate: now},
				{ProductID: "p1", PurchaseDate: now.Add(-time.Hour)},
			}, nil
		},
	}
	svc := NewService(store, testLogger())

	history, err := svc.UserHistory(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("UserHistory() error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d entries, want 2", len(history))
	}
	if history[0].PurchaseDate.Before(history[1].PurchaseDate) {
		t.Error("history not most-recent-first")
	}
}

func TestRecordPurchaseAllItems(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store, testLogger())

	items := []PurchaseItem{
		{ProductID: "p1", Quantity: 1, Price: 10},
		{ProductID: "p2", Quantity: 2, Price: 20},
		{ProductID: "p3", Quantity: 1, Price: 5},
	}
	if err := svc.RecordPurchase(context.Background(), "u1", "order-1", items); err != nil {
		t.Fatalf("RecordPurchase() error: %v", err)
	}
	if len(store.recordedPurchases) != 3 {
		t.Errorf("recorded %d items, want 3", len(store.recordedPurchases))
	}
}

func TestRecordPurchaseMidSequenceFailure(t *testing.T) {
	store := &mockStore{
		recordPurchaseFn: func(userID, orderID string, item PurchaseItem) error {
			if item.ProductID == "p2" {
				return errStore
			}
			return nil
		},
	}
	svc := NewService(store, testLogger())

	items := []PurchaseItem{
		{ProductID: "p1", Quantity: 1, Price: 10},
		{ProductID: "p2", Quantity: 2, Price: 20},
		{ProductID: "p3", Quantity: 1, Price: 5},
	}
	err := svc.RecordPurchase(context.Background(), "u1", "order-7", items)
	if !errors.Is(err, errStore) {
		t.Fatalf("error = %v, want wrapped errStore", err)
	}
	if !strings.Contains(err.Error(), "item 2") || !strings.Contains(err.Error(), "p2") {
		t.Errorf("error %q does not identify the failing item", err)
	}
	if !strings.Contains(err.Error(), "order-7") {
		t.Errorf("error %q does not identify the order", err)
	}

	// The prefix before the failure stays recorded; nothing after the
	// failing item is attempted.
	if len(store.recordedPurchases) != 1 {
		t.Fatalf("recorded %d items, want exactly the prefix of 1", len(store.recordedPurchases))
	}
	if store.recordedPurchases[0].ProductID != "p1" {
		t.Errorf("recorded %q, want p1", store.recordedPurchases[0].ProductID)
	}
}

func TestRecordPurchaseEmptyOrder(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store, testLogger())

	if err := svc.RecordPurchase(context.Background(), "u1", "order-0", nil); err != nil {
		t.Fatalf("empty order should succeed, got %v", err)
	}
	if len(store.recordedPurchases) != 0 {
		t.Errorf("recorded %d items for an empty order", len(store.recordedPurchases))
	}
}

func TestRecordViewFailureSwallowed(t *testing.T) {
	store := &mockStore{
		recordViewFn: func(string, string, int, string) error { return errStore },
	}
	svc := NewService(store, testLogger())

	if err := svc.RecordView(context.Background(), "u1", "p1", 30, "search"); err != nil {
		t.Errorf("view failure leaked: %v", err)
	}
	if len(store.recordedViews) != 1 {
		t.Errorf("store saw %d view attempts, want 1", len(store.recordedViews))
	}
}

func TestFailurePolicyString(t *testing.T) {
	tests := []struct {
		policy FailurePolicy
		want   string
	}{
		{Propagate, "propagate"},
		{SuppressAndLog, "suppress-and-log"},
		{FailurePolicy(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.policy.String(); got != tt.want {
			t.Errorf("FailurePolicy(%d).String() = %q, want %q", tt.policy, got, tt.want)
		}
	}
}
