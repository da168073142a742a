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

const (
	// neighborLimit caps how many similar users feed a recommendation.
	neighborLimit = 20

	// coldStartWindowDays is the trending window used when a user has
	// no purchase history.
	coldStartWindowDays = 30

	// candidateMultiplier sizes the advisory candidate fetch relative
	// to the requested limit.
	candidateMultiplier = 3

	// confidenceSaturation is the neighbor count at which confidence
	// reaches 1.0.
	confidenceSaturation = 20

	coldStartConfidence = 0.5
	coldStartReason     = "popular product"
)

// CollaborativeFilter produces neighbor-based recommendations. It is
// stateless; every call re-queries the store.
type CollaborativeFilter struct {
	store  Store
	logger zerolog.Logger
}

// NewCollaborativeFilter creates a collaborative filter over the store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCollaborativeFilter(store Store, logger zerolog.Logger) *CollaborativeFilter {
	return &CollaborativeFilter{
		store:  store,
		logger: logger.With().Str("component", "collaborative").Logger(),
	}
}

// Recommendations generates up to limit personalized recommendations:
//
//  1. Cold start: users without purchase history get trending products
//     over a 30-day window, bypassing neighbor discovery.
//  2. Neighbor discovery via the store; no neighbors means an empty
//     result, not a fallback.
//  3. An advisory candidate fetch sized at 3x the limit. Its result is
//     not folded into the final ranking; the call is kept as a distinct
//     store operation (see DESIGN.md).
//  4. Final ranking via the store's personalized-candidate query.
//  5. Confidence and reason derived from the neighbor count.
func (c *CollaborativeFilter) Recommendations(ctx context.Context, userID string, limit int) ([]RecommendedProduct, error) {
	categoryCounts, err := c.store.GetUserCategoryCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("purchase history for %s: %w", userID, err)
	}

	if len(categoryCounts) == 0 {
		c.logger.Debug().Str("user_id", userID).Msg("no purchase history, falling back to trending")
		trending, err := c.store.AggregateTrending(ctx, coldStartWindowDays, limit)
		if err != nil {
			return nil, fmt.Errorf("cold-start trending for %s: %w", userID, err)
		}
		return trendingToRecommended(trending), nil
	}

	similarUsers, err := c.SimilarUsers(ctx, userID, neighborLimit)
	if err != nil {
		return nil, fmt.Errorf("similar users for %s: %w", userID, err)
	}

	if len(similarUsers) == 0 {
		c.logger.Debug().Str("user_id", userID).Msg("no similar users found")
		return []RecommendedProduct{}, nil
	}

	// Advisory: fetched for parity with the ranking query's candidate
	// pool, not consumed by it.
	if _, err := c.store.FindUnpurchasedPopularProducts(ctx, userID, similarUsers, limit*candidateMultiplier); err != nil {
		return nil, fmt.Errorf("candidate products for %s: %w", userID, err)
	}

	candidates, err := c.store.FindPersonalizedCandidates(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("personalized candidates for %s: %w", userID, err)
	}

	confidence := Confidence(len(similarUsers))
	reason := recommendationReason(len(similarUsers))

	recs := make([]RecommendedProduct, 0, len(candidates))
	for _, cand := range candidates {
		recs = append(recs, RecommendedProduct{
			ProductID:  cand.ProductID,
			Name:       cand.Name,
			Category:   cand.Category,
			Price:      cand.Price,
			Rating:     cand.Rating,
			Score:      saturate(float64(cand.Popularity) / 10.0),
			Confidence: confidence,
			Reason:     reason,
		})
	}

	c.logger.Debug().
		Str("user_id", userID).
		Int("neighbors", len(similarUsers)).
		Int("recommendations", len(recs)).
		Msg("generated collaborative recommendations")

	return recs, nil
}

// SimilarUsers returns up to limit users ranked by shared purchases.
func (c *CollaborativeFilter) SimilarUsers(ctx context.Context, userID string, limit int) ([]string, error) {
	return c.store.FindSimilarUsers(ctx, userID, limit)
}

// CalculateUserSimilarity computes the Jaccard similarity of two users'
// purchased product sets: |A ∩ B| / |A ∪ B|. Either set being empty
// yields 0. This scoring utility is independent of the store-backed
// ranking queries.
func CalculateUserSimilarity(purchasesA, purchasesB map[string]int) float64 {
	if len(purchasesA) == 0 || len(purchasesB) == 0 {
		return 0
	}

	common := 0
	for id := range purchasesA {
		if _, ok := purchasesB[id]; ok {
			common++
		}
	}
	union := len(purchasesA) + len(purchasesB) - common
	if union == 0 {
		return 0
	}
	return float64(common) / float64(union)
}

// Confidence maps a neighbor count to a [0,1] reliability estimate,
// saturating at confidenceSaturation neighbors.
func Confidence(similarUserCount int) float64 {
	return saturate(float64(similarUserCount) / float64(confidenceSaturation))
}

// recommendationReason picks the explanation string by neighbor count.
func recommendationReason(similarUserCount int) string {
	switch {
	case similarUserCount > 10:
		return fmt.Sprintf("%d similar users bought this", similarUserCount)
	case similarUserCount > 5:
		return "popular among users with similar taste"
	default:
		return "based on your purchase history"
	}
}

// trendingToRecommended converts trending rows into cold-start
// recommendations, reusing the trend score as the ranking score.
func trendingToRecommended(trending []TrendingProduct) []RecommendedProduct {
	recs := make([]RecommendedProduct, 0, len(trending))
	for _, t := range trending {
		recs = append(recs, RecommendedProduct{
			ProductID:  t.ProductID,
			Name:       t.Name,
			Category:   t.Category,
			Price:      t.Price,
			Score:      t.TrendScore,
			Confidence: coldStartConfidence,
			Reason:     coldStartReason,
		})
	}
	return recs
}

// saturate clamps v into [0,1] from above.
func saturate(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}
