// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package recommend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Default limits applied when callers pass zero or negative values.
const (
	DefaultRecommendationLimit = 10
	DefaultSimilarLimit        = 5
	DefaultTrendingDays        = 7
	DefaultTrendingLimit       = 10
	DefaultHistoryLimit        = 20
)

// FailurePolicy declares how an ingestion-path store failure is handled.
type FailurePolicy int

const (
	// Propagate surfaces the failure to the caller.
	Propagate FailurePolicy = iota

	// SuppressAndLog records the failure in the log and reports success
	// to the caller. Used for view recording and last-active
	// bookkeeping, which must never fail a larger operation.
	SuppressAndLog
)

// String returns a human-readable policy name.
func (p FailurePolicy) String() string {
	switch p {
	case Propagate:
		return "propagate"
	case SuppressAndLog:
		return "suppress-and-log"
	default:
		return "unknown"
	}
}

// Service is the public recommendation contract. It sequences algorithm
// calls, handles last-active bookkeeping, and exposes the ingestion
// entry points. It holds no mutable state of its own; every call is
// request-scoped over the injected store.
type Service struct {
	store         Store
	collaborative *CollaborativeFilter
	content       *ContentFilter
	logger        zerolog.Logger
}

// NewService creates the recommendation service over a graph store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{
		store:         store,
		collaborative: NewCollaborativeFilter(store, logger),
		content:       NewContentFilter(store, logger),
		logger:        logger.With().Str("component", "recommend").Logger(),
	}
}

// PersonalizedRecommendations returns up to limit recommendations for
// the user. Last-active bookkeeping runs first under SuppressAndLog so
// a bookkeeping failure never aborts recommendation generation.
func (s *Service) PersonalizedRecommendations(ctx context.Context, userID string, limit int) ([]RecommendedProduct, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	//nolint:errcheck // suppress-and-log policy never yields an error
	s.applyPolicy(SuppressAndLog, "update_last_active", func() error {
		return s.store.UpdateUserLastActive(ctx, userID)
	})

	return s.collaborative.Recommendations(ctx, userID, limit)
}

// SimilarProducts returns up to limit products similar to productID.
func (s *Service) SimilarProducts(ctx context.Context, productID string, limit int) ([]SimilarProduct, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	return s.content.SimilarByCategory(ctx, productID, limit)
}

// TrendingProducts returns up to limit products trending over the
// trailing window of days.
func (s *Service) TrendingProducts(ctx context.Context, days, limit int) ([]TrendingProduct, error) {
	if days <= 0 {
		days = DefaultTrendingDays
	}
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	return s.store.AggregateTrending(ctx, days, limit)
}

// UserHistory returns the user's purchase history, most-recent-first.
func (s *Service) UserHistory(ctx context.Context, userID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.store.GetUserPurchaseHistory(ctx, userID, limit)
}

// RecordPurchase ingests an order. Items are written sequentially so a
// mid-sequence failure leaves a deterministic prefix recorded; the
// failing item aborts the rest and the error propagates. There is no
// compensating rollback of already-recorded items.
func (s *Service) RecordPurchase(ctx context.Context, userID, orderID string, items []PurchaseItem) error {
	s.logger.Info().
		Str("user_id", userID).
		Str("order_id", orderID).
		Int("items", len(items)).
		Msg("recording purchase")

	for i, item := range items {
		err := s.applyPolicy(Propagate, "record_purchase", func() error {
			return s.store.RecordPurchase(ctx, userID, orderID, item)
		})
		if err != nil {
			return fmt.Errorf("record purchase item %d (%s) of order %s: %w",
				i+1, item.ProductID, orderID, err)
		}
	}
	return nil
}

// RecordView ingests a product view. View recording is non-critical:
// store failures are logged and swallowed, never surfaced.
func (s *Service) RecordView(ctx context.Context, userID, productID string, duration int, source string) error {
	return s.applyPolicy(SuppressAndLog, "record_view", func() error {
		return s.store.RecordView(ctx, userID, productID, duration, source)
	})
}

// applyPolicy runs op and resolves a failure according to policy. Under
// SuppressAndLog the returned error is always nil.
func (s *Service) applyPolicy(policy FailurePolicy, op string, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}

	switch policy {
	case SuppressAndLog:
		s.logger.Warn().
			Err(err).
			Str("op", op).
			Str("policy", policy.String()).
			Msg("non-critical store failure suppressed")
		return nil
	default:
		return err
	}
}
