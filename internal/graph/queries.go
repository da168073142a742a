// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package graph

import (
	"context"
	"fmt"

	"github.com/shopgraph/shopgraph/internal/recommend"
)

// FindSimilarUsers returns up to limit user IDs ranked by the number of
// distinct products purchased in common with userID.
func (s *Store) FindSimilarUsers(ctx context.Context, userID string, limit int) ([]string, error) {
	const query = `
		MATCH (u:User {userId: $userId})-[:PURCHASED]->(p:Product)
		      <-[:PURCHASED]-(similar:User)
		WHERE similar.userId <> $userId
		WITH similar, COUNT(DISTINCT p) AS commonPurchases
		ORDER BY commonPurchases DESC
		LIMIT $limit
		RETURN similar.userId AS userId`

	records, err := s.queryRecords(ctx, "find_similar_users", query, map[string]any{
		"userId": userID,
		"limit":  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("find similar users for %s: %w", userID, err)
	}

	userIDs := make([]string, 0, len(records))
	for _, record := range records {
		userIDs = append(userIDs, asString(record.AsMap()["userId"]))
	}
	return userIDs, nil
}

// FindUnpurchasedPopularProducts returns product IDs purchased by any of
// candidateUserIDs but not by userID, most purchased first.
func (s *Store) FindUnpurchasedPopularProducts(ctx context.Context, userID string, candidateUserIDs []string, limit int) ([]string, error) {
	const query = `
		MATCH (u:User {userId: $userId})
		MATCH (similar:User)-[:PURCHASED]->(rec:Product)
		WHERE similar.userId IN $similarUserIds AND NOT (u)-[:PURCHASED]->(rec)
		RETURN DISTINCT rec.productId AS productId
		ORDER BY rec.purchaseCount DESC
		LIMIT $limit`

	records, err := s.queryRecords(ctx, "find_unpurchased_popular", query, map[string]any{
		"userId":         userID,
		"similarUserIds": candidateUserIDs,
		"limit":          limit,
	})
	if err != nil {
		return nil, fmt.Errorf("find unpurchased products for %s: %w", userID, err)
	}

	productIDs := make([]string, 0, len(records))
	for _, record := range records {
		productIDs = append(productIDs, asString(record.AsMap()["productId"]))
	}
	return productIDs, nil
}

// FindPersonalizedCandidates returns products other users purchased but
// userID has not, ranked by distinct purchasers then global purchase
// count. The user node is merged first so brand-new users resolve
// instead of matching nothing, which forces a write transaction.
func (s *Store) FindPersonalizedCandidates(ctx context.Context, userID string, limit int) ([]recommend.CandidateProduct, error) {
	const query = `
		MERGE (u:User {userId: $userId})
		OPTIONAL MATCH (similar:User)-[:PURCHASED]->(rec:Product)
		WHERE similar.userId <> $userId AND NOT (u)-[:PURCHASED]->(rec)
		WITH rec, u, COUNT(DISTINCT similar) AS popularity
		ORDER BY popularity DESC, rec.purchaseCount DESC
		LIMIT $limit
		RETURN DISTINCT rec.productId AS productId, rec.name AS name,
		       rec.category AS category, rec.price AS price,
		       rec.rating AS rating, popularity`

	records, err := s.queryRecordsWrite(ctx, "find_personalized_candidates", query, map[string]any{
		"userId": userID,
		"limit":  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("find personalized candidates for %s: %w", userID, err)
	}

	candidates := make([]recommend.CandidateProduct, 0, len(records))
	for _, record := range records {
		row := record.AsMap()
		// The OPTIONAL MATCH yields a single all-null row when nothing
		// qualifies.
		if row["productId"] == nil {
			continue
		}
		candidates = append(candidates, recommend.CandidateProduct{
			ProductID:  asString(row["productId"]),
			Name:       asString(row["name"]),
			Category:   asString(row["category"]),
			Price:      asFloat(row["price"]),
			Rating:     asFloat(row["rating"]),
			Popularity: asInt(row["popularity"]),
		})
	}
	return candidates, nil
}

// FindProductsByCategory returns products sharing the category of
// productID's product, excluding itself, most purchased first.
func (s *Store) FindProductsByCategory(ctx context.Context, productID string, limit int) ([]recommend.ProductSummary, error) {
	const query = `
		MATCH (p:Product {productId: $productId})
		MATCH (similar:Product)
		WHERE similar.productId <> $productId AND similar.category = p.category
		RETURN similar.productId AS productId, similar.name AS name,
		       similar.category AS category, similar.price AS price
		ORDER BY similar.purchaseCount DESC
		LIMIT $limit`

	records, err := s.queryRecords(ctx, "find_products_by_category", query, map[string]any{
		"productId": productID,
		"limit":     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("find products by category for %s: %w", productID, err)
	}

	products := make([]recommend.ProductSummary, 0, len(records))
	for _, record := range records {
		row := record.AsMap()
		products = append(products, recommend.ProductSummary{
			ProductID: asString(row["productId"]),
			Name:      asString(row["name"]),
			Category:  asString(row["category"]),
			Price:     asFloat(row["price"]),
		})
	}
	return products, nil
}

// AggregateTrending returns products ranked by purchase-edge count
// inside the trailing window of windowDays days.
func (s *Store) AggregateTrending(ctx context.Context, windowDays, limit int) ([]recommend.TrendingProduct, error) {
	const query = `
		MATCH (u:User)-[r:PURCHASED]->(p:Product)
		WHERE r.purchaseDate >= datetime() - duration({days: $days})
		WITH p, COUNT(r) AS recentPurchases
		ORDER BY recentPurchases DESC
		LIMIT $limit
		RETURN p.productId AS productId, p.name AS name,
		       p.category AS category, p.price AS price, recentPurchases`

	records, err := s.queryRecords(ctx, "aggregate_trending", query, map[string]any{
		"days":  windowDays,
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate trending over %d days: %w", windowDays, err)
	}

	trending := make([]recommend.TrendingProduct, 0, len(records))
	for _, record := range records {
		row := record.AsMap()
		recent := asInt(row["recentPurchases"])
		trending = append(trending, recommend.TrendingProduct{
			ProductID:       asString(row["productId"]),
			Name:            asString(row["name"]),
			Category:        asString(row["category"]),
			Price:           asFloat(row["price"]),
			RecentPurchases: recent,
			TrendScore:      recommend.TrendScore(recent),
		})
	}
	return trending, nil
}

// GetUserCategoryCounts maps category name to the number of purchased
// products in that category for the user. An empty map means the user
// has no purchase history.
func (s *Store) GetUserCategoryCounts(ctx context.Context, userID string) (map[string]int, error) {
	const query = `
		MATCH (u:User {userId: $userId})-[:PURCHASED]->(p:Product)
		RETURN p.category AS category, COUNT(p) AS count`

	records, err := s.queryRecords(ctx, "category_counts", query, map[string]any{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("category counts for %s: %w", userID, err)
	}

	counts := make(map[string]int, len(records))
	for _, record := range records {
		row := record.AsMap()
		counts[asString(row["category"])] = asInt(row["count"])
	}
	return counts, nil
}

// GetUserPurchaseHistory returns the user's purchase facts,
// most-recent-first. The user node is merged first, so the lookup never
// fails on an unknown user; it returns an empty history instead.
func (s *Store) GetUserPurchaseHistory(ctx context.Context, userID string, limit int) ([]recommend.HistoryEntry, error) {
	const query = `
		MERGE (u:User {userId: $userId})
		WITH u
		OPTIONAL MATCH (u)-[r:PURCHASED]->(p:Product)
		RETURN p.productId AS productId, p.name AS name,
		       p.category AS category, toString(r.purchaseDate) AS purchaseDate,
		       r.quantity AS quantity, r.price AS price
		ORDER BY r.purchaseDate DESC
		LIMIT $limit`

	records, err := s.queryRecordsWrite(ctx, "purchase_history", query, map[string]any{
		"userId": userID,
		"limit":  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("purchase history for %s: %w", userID, err)
	}

	history := make([]recommend.HistoryEntry, 0, len(records))
	for _, record := range records {
		row := record.AsMap()
		if row["productId"] == nil {
			continue
		}
		history = append(history, recommend.HistoryEntry{
			ProductID:    asString(row["productId"]),
			Name:         asString(row["name"]),
			Category:     asString(row["category"]),
			PurchaseDate: asTime(row["purchaseDate"]),
			Quantity:     asInt(row["quantity"]),
			Price:        asFloat(row["price"]),
		})
	}
	return history, nil
}
