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

// UpsertUser creates or updates a user node. joinedDate is set only on
// first creation; lastActive is refreshed on every call.
func (s *Store) UpsertUser(ctx context.Context, userID, name, email string) error {
	const query = `
		MERGE (u:User {userId: $userId})
		ON CREATE SET u.joinedDate = datetime()
		SET u.name = $name,
		    u.email = $email,
		    u.lastActive = datetime()`

	params := map[string]any{
		"userId": userID,
		"name":   name,
		"email":  email,
	}

	if err := s.execWrite(ctx, "upsert_user", query, params); err != nil {
		return fmt.Errorf("upsert user %s: %w", userID, err)
	}
	s.logger.Debug().Str("user_id", userID).Msg("upserted user")
	return nil
}

// UpsertProduct creates or updates a product node. Counters and rating
// are initialized only on first creation so re-upserting a product never
// erases accumulated popularity.
func (s *Store) UpsertProduct(ctx context.Context, product recommend.Product) error {
	const query = `
		MERGE (p:Product {productId: $productId})
		ON CREATE SET p.viewCount = 0,
		              p.purchaseCount = 0,
		              p.rating = 0,
		              p.createdAt = datetime()
		SET p.name = $name,
		    p.category = $category,
		    p.price = $price`

	params := map[string]any{
		"productId": product.ProductID,
		"name":      product.Name,
		"category":  product.Category,
		"price":     product.Price,
	}

	if err := s.execWrite(ctx, "upsert_product", query, params); err != nil {
		return fmt.Errorf("upsert product %s: %w", product.ProductID, err)
	}
	s.logger.Debug().Str("product_id", product.ProductID).Msg("upserted product")
	return nil
}

// RecordView upserts both endpoint nodes and the VIEWED edge, keeping
// only the latest view's properties, and increments the product's
// cumulative view counter.
func (s *Store) RecordView(ctx context.Context, userID, productID string, duration int, source string) error {
	const query = `
		MERGE (u:User {userId: $userId})
		SET u.lastActive = datetime()
		MERGE (p:Product {productId: $productId})
		MERGE (u)-[r:VIEWED]->(p)
		SET r.viewedAt = datetime(),
		    r.duration = $duration,
		    r.source = $source
		WITH p, r
		SET p.viewCount = COALESCE(p.viewCount, 0) + 1`

	params := map[string]any{
		"userId":    userID,
		"productId": productID,
		"duration":  duration,
		"source":    source,
	}

	if err := s.execWrite(ctx, "record_view", query, params); err != nil {
		return fmt.Errorf("record view of %s by %s: %w", productID, userID, err)
	}
	return nil
}

// RecordPurchase upserts both endpoint nodes and the PURCHASED edge,
// keeping only the latest purchase's order properties, and increments
// the product's cumulative purchase counter.
func (s *Store) RecordPurchase(ctx context.Context, userID, orderID string, item recommend.PurchaseItem) error {
	const query = `
		MERGE (u:User {userId: $userId})
		SET u.lastActive = datetime()
		MERGE (p:Product {productId: $productId})
		MERGE (u)-[r:PURCHASED]->(p)
		SET r.orderId = $orderId,
		    r.purchaseDate = datetime(),
		    r.quantity = $quantity,
		    r.price = $price
		WITH p, r
		SET p.purchaseCount = COALESCE(p.purchaseCount, 0) + 1`

	params := map[string]any{
		"userId":    userID,
		"orderId":   orderID,
		"productId": item.ProductID,
		"quantity":  item.Quantity,
		"price":     item.Price,
	}

	if err := s.execWrite(ctx, "record_purchase", query, params); err != nil {
		return fmt.Errorf("record purchase of %s in order %s: %w", item.ProductID, orderID, err)
	}
	s.logger.Debug().
		Str("user_id", userID).
		Str("order_id", orderID).
		Str("product_id", item.ProductID).
		Msg("recorded purchase item")
	return nil
}

// UpdateUserLastActive stamps the user's lastActive property. A missing
// user node is not an error; the MATCH simply touches nothing.
func (s *Store) UpdateUserLastActive(ctx context.Context, userID string) error {
	const query = `
		MATCH (u:User {userId: $userId})
		SET u.lastActive = datetime()`

	if err := s.execWrite(ctx, "update_last_active", query, map[string]any{"userId": userID}); err != nil {
		return fmt.Errorf("update last active for %s: %w", userID, err)
	}
	return nil
}
