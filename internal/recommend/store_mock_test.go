// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package recommend

import (
	"context"
	"errors"
)

// errStore is the simulated storage failure used across tests.
var errStore = errors.New("store unavailable")

// mockStore implements Store with per-operation stubs and call
// recording. Nil stubs return zero values.
type mockStore struct {
	upsertUserFn        func(userID, name, email string) error
	upsertProductFn     func(p Product) error
	recordViewFn        func(userID, productID string, duration int, source string) error
	recordPurchaseFn    func(userID, orderID string, item PurchaseItem) error
	lastActiveFn        func(userID string) error
	similarUsersFn      func(userID string, limit int) ([]string, error)
	unpurchasedFn       func(userID string, candidates []string, limit int) ([]string, error)
	personalizedFn      func(userID string, limit int) ([]CandidateProduct, error)
	byCategoryFn        func(productID string, limit int) ([]ProductSummary, error)
	trendingFn          func(windowDays, limit int) ([]TrendingProduct, error)
	categoryCountsFn    func(userID string) (map[string]int, error)
	purchaseHistoryFn   func(userID string, limit int) ([]HistoryEntry, error)
	recordedPurchases   []PurchaseItem
	recordedViews       []string
	lastActiveCalls     int
	unpurchasedCalls    int
	unpurchasedLimit    int
	trendingCalls       int
	trendingWindowDays  int
	similarUsersCalls   int
	personalizedCalls   int
	personalizedLimitIn int
}

func (m *mockStore) UpsertUser(_ context.Context, userID, name, email string) error {
	if m.upsertUserFn != nil {
		return m.upsertUserFn(userID, name, email)
	}
	return nil
}

func (m *mockStore) UpsertProduct(_ context.Context, p Product) error {
	if m.upsertProductFn != nil {
		return m.upsertProductFn(p)
	}
	return nil
}

func (m *mockStore) RecordView(_ context.Context, userID, productID string, duration int, source string) error {
	m.recordedViews = append(m.recordedViews, productID)
	if m.recordViewFn != nil {
		return m.recordViewFn(userID, productID, duration, source)
	}
	return nil
}

func (m *mockStore) RecordPurchase(_ context.Context, userID, orderID string, item PurchaseItem) error {
	if m.recordPurchaseFn != nil {
		if err := m.recordPurchaseFn(userID, orderID, item); err != nil {
			return err
		}
	}
	m.recordedPurchases = append(m.recordedPurchases, item)
	return nil
}

func (m *mockStore) UpdateUserLastActive(_ context.Context, userID string) error {
	m.lastActiveCalls++
	if m.lastActiveFn != nil {
		return m.lastActiveFn(userID)
	}
	return nil
}

func (m *mockStore) FindSimilarUsers(_ context.Context, userID string, limit int) ([]string, error) {
	m.similarUsersCalls++
	if m.similarUsersFn != nil {
		return m.similarUsersFn(userID, limit)
	}
	return nil, nil
}

func (m *mockStore) FindUnpurchasedPopularProducts(_ context.Context, userID string, candidates []string, limit int) ([]string, error) {
	m.unpurchasedCalls++
	m.unpurchasedLimit = limit
	if m.unpurchasedFn != nil {
		return m.unpurchasedFn(userID, candidates, limit)
	}
	return nil, nil
}

func (m *mockStore) FindPersonalizedCandidates(_ context.Context, userID string, limit int) ([]CandidateProduct, error) {
	m.personalizedCalls++
	m.personalizedLimitIn = limit
	if m.personalizedFn != nil {
		return m.personalizedFn(userID, limit)
	}
	return nil, nil
}

func (m *mockStore) FindProductsByCategory(_ context.Context, productID string, limit int) ([]ProductSummary, error) {
	if m.byCategoryFn != nil {
		return m.byCategoryFn(productID, limit)
	}
	return nil, nil
}

func (m *mockStore) AggregateTrending(_ context.Context, windowDays, limit int) ([]TrendingProduct, error) {
	m.trendingCalls++
	m.trendingWindowDays = windowDays
	if m.trendingFn != nil {
		return m.trendingFn(windowDays, limit)
	}
	return nil, nil
}

func (m *mockStore) GetUserCategoryCounts(_ context.Context, userID string) (map[string]int, error) {
	if m.categoryCountsFn != nil {
		return m.categoryCountsFn(userID)
	}
	return nil, nil
}

func (m *mockStore) GetUserPurchaseHistory(_ context.Context, userID string, limit int) ([]HistoryEntry, error) {
	if m.purchaseHistoryFn != nil {
		return m.purchaseHistoryFn(userID, limit)
	}
	return nil, nil
}
