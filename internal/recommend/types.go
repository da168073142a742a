// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package recommend

import (
	"context"
	"time"
)

// Note: This package has no dependencies on other internal packages.
// The Store interface lets the graph package plug in without creating
// circular imports, and keeps the algorithms testable against mocks.

// Product carries the attributes needed to upsert a product node.
type Product struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
}

// ProductSummary is a bare product row returned by category queries.
// Scoring annotations are added by the content filter, not the store.
type ProductSummary struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
}

// CandidateProduct is a personalized-ranking row. Popularity is the
// count of distinct other users who purchased the product.
type CandidateProduct struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Price      float64 `json:"price"`
	Rating     float64 `json:"rating"`
	Popularity int     `json:"popularity"`
}

// RecommendedProduct is a scored personalized recommendation.
type RecommendedProduct struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Rating    float64 `json:"rating"`

	// Score is the ranking strength in [0,1].
	Score float64 `json:"score"`

	// Confidence estimates reliability in [0,1], derived from
	// neighbor-count saturation.
	Confidence float64 `json:"confidence"`

	// Reason is a human-readable explanation for the recommendation.
	Reason string `json:"reason"`
}

// SimilarProduct is a content-based "similar product" result.
type SimilarProduct struct {
	ProductID       string  `json:"product_id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	SimilarityScore float64 `json:"similarity_score"`
	Reason          string  `json:"reason"`
}

// TrendingProduct is a time-windowed trending result.
type TrendingProduct struct {
	ProductID       string  `json:"product_id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	RecentPurchases int     `json:"recent_purchases"`
	TrendScore      float64 `json:"trend_score"`
}

// HistoryEntry is one purchase fact from a user's history,
// most-recent-first.
type HistoryEntry struct {
	ProductID    string    `json:"product_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	PurchaseDate time.Time `json:"purchase_date"`
	Quantity     int       `json:"quantity"`
	Price        float64   `json:"price"`
}

// PurchaseItem is one line of an ingested order.
type PurchaseItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Store is the graph store contract the engine depends on. All write
// operations are idempotent upserts; counter increments are applied by
// the store atomically, never via client-side read-modify-write.
type Store interface {
	// UpsertUser creates or updates a user node. joinedDate is stamped
	// only on first creation, lastActive on every call.
	UpsertUser(ctx context.Context, userID, name, email string) error

	// UpsertProduct creates or updates a product node. Counters start
	// at zero only on first creation.
	UpsertProduct(ctx context.Context, product Product) error

	// RecordView upserts both endpoint nodes and the VIEWED edge
	// (latest view wins), and increments the product's view counter.
	RecordView(ctx context.Context, userID, productID string, duration int, source string) error

	// RecordPurchase upserts both endpoint nodes and the PURCHASED edge
	// (latest purchase wins), and increments the purchase counter.
	RecordPurchase(ctx context.Context, userID, orderID string, item PurchaseItem) error

	// UpdateUserLastActive stamps the user's lastActive property.
	UpdateUserLastActive(ctx context.Context, userID string) error

	// FindSimilarUsers returns up to limit user IDs ranked by descending
	// count of distinct products purchased in common with userID.
	FindSimilarUsers(ctx context.Context, userID string, limit int) ([]string, error)

	// FindUnpurchasedPopularProducts returns product IDs purchased by
	// any of candidateUserIDs but not by userID, most popular first.
	FindUnpurchasedPopularProducts(ctx context.Context, userID string, candidateUserIDs []string, limit int) ([]string, error)

	// FindPersonalizedCandidates returns products purchased by other
	// users but not by userID, ranked by (distinct purchasers desc,
	// global purchase count desc).
	FindPersonalizedCandidates(ctx context.Context, userID string, limit int) ([]CandidateProduct, error)

	// FindProductsByCategory returns products sharing the category of
	// productID's product, excluding itself, by purchase count desc.
	FindProductsByCategory(ctx context.Context, productID string, limit int) ([]ProductSummary, error)

	// AggregateTrending returns products with purchases inside the
	// trailing window, ranked by in-window purchase count desc.
	AggregateTrending(ctx context.Context, windowDays, limit int) ([]TrendingProduct, error)

	// GetUserCategoryCounts maps category name to the number of
	// purchased products in that category for the user.
	GetUserCategoryCounts(ctx context.Context, userID string) (map[string]int, error)

	// GetUserPurchaseHistory returns the user's purchase facts,
	// most-recent-first, bounded to limit.
	GetUserPurchaseHistory(ctx context.Context, userID string, limit int) ([]HistoryEntry, error)
}
