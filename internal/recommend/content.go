// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package recommend

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// categoryMatchScore is the fixed similarity assigned to category
	// matches. The actual ordering comes from the store's purchase-count
	// ranking, not from this value.
	categoryMatchScore  = 0.85
	categoryMatchReason = "similar product in the same category"

	// Weighting for the standalone product similarity function:
	// category dominates, price is a tiebreaker.
	categoryWeight = 0.7
	priceWeight    = 0.3
)

// ContentFilter produces attribute-based "similar product" results.
type ContentFilter struct {
	store  Store
	logger zerolog.Logger
}

// NewContentFilter creates a content filter over the store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewContentFilter(store Store, logger zerolog.Logger) *ContentFilter {
	return &ContentFilter{
		store:  store,
		logger: logger.With().Str("component", "content").Logger(),
	}
}

// SimilarByCategory returns up to limit products in the same category as
// productID, annotated with the fixed category-match score and reason.
func (f *ContentFilter) SimilarByCategory(ctx context.Context, productID string, limit int) ([]SimilarProduct, error) {
	rows, err := f.store.FindProductsByCategory(ctx, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("products by category for %s: %w", productID, err)
	}

	similar := make([]SimilarProduct, 0, len(rows))
	for _, row := range rows {
		similar = append(similar, SimilarProduct{
			ProductID:       row.ProductID,
			Name:            row.Name,
			Category:        row.Category,
			Price:           row.Price,
			SimilarityScore: categoryMatchScore,
			Reason:          categoryMatchReason,
		})
	}

	f.logger.Debug().
		Str("product_id", productID).
		Int("matches", len(similar)).
		Msg("found similar products by category")

	return similar, nil
}

// CalculateProductSimilarity scores how alike two products are from
// their category and price:
//
//	categoryScore = 1 if the categories match case-insensitively, else 0
//	priceScore    = 1 - min(|priceA-priceB| / avgPrice, 1), 0 if avgPrice is 0
//	similarity    = 0.7*categoryScore + 0.3*priceScore
//
// This scoring utility is independent of the store-backed ranking.
func CalculateProductSimilarity(categoryA, categoryB string, priceA, priceB float64) float64 {
	categoryScore := 0.0
	if strings.EqualFold(categoryA, categoryB) {
		categoryScore = 1.0
	}

	priceScore := 0.0
	if avgPrice := (priceA + priceB) / 2; avgPrice > 0 {
		diff := math.Abs(priceA - priceB)
		priceScore = 1.0 - math.Min(diff/avgPrice, 1.0)
	}

	return categoryWeight*categoryScore + priceWeight*priceScore
}
