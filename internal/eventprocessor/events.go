// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package eventprocessor

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NATS subjects for shop events.
const (
	// TopicOrderCreated carries order placement events.
	TopicOrderCreated = "orders.created"

	// TopicProductViewed carries product view events.
	TopicProductViewed = "products.viewed"

	// TopicRecommendationGenerated carries generated-recommendation
	// notifications for downstream consumers.
	TopicRecommendationGenerated = "recommendations.generated"
)

// OrderItem is one line of an order event.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderCreatedEvent is published when an order is placed.
type OrderCreatedEvent struct {
	OrderID   string      `json:"order_id"`
	UserID    string      `json:"user_id"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}

// Validate checks required fields.
func (e *OrderCreatedEvent) Validate() error {
	if e.OrderID == "" {
		return &ValidationError{Field: "order_id", Message: "required"}
	}
	if e.UserID == "" {
		return &ValidationError{Field: "user_id", Message: "required"}
	}
	for i, item := range e.Items {
		if item.ProductID == "" {
			return &ValidationError{Field: "items", Message: "item " + strconv.Itoa(i) + " missing product_id"}
		}
		if item.Quantity < 1 {
			return &ValidationError{Field: "items", Message: "item " + strconv.Itoa(i) + " quantity must be >= 1"}
		}
	}
	return nil
}

// ProductViewedEvent is published when a user views a product page.
type ProductViewedEvent struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	ViewedAt  time.Time `json:"viewed_at"`

	// Duration is how long the product page was open, in seconds.
	Duration int `json:"duration"`

	// Source is where the view originated (search, category, direct).
	Source string `json:"source"`
}

// Validate checks required fields.
func (e *ProductViewedEvent) Validate() error {
	if e.UserID == "" {
		return &ValidationError{Field: "user_id", Message: "required"}
	}
	if e.ProductID == "" {
		return &ValidationError{Field: "product_id", Message: "required"}
	}
	return nil
}

// RecommendationGeneratedEvent notifies downstream consumers that a
// recommendation set was produced for a user.
type RecommendationGeneratedEvent struct {
	UserID                string    `json:"user_id"`
	RecommendedProductIDs []string  `json:"recommended_product_ids"`
	GeneratedAt           time.Time `json:"generated_at"`
	AlgorithmUsed         string    `json:"algorithm_used"`
}

// NewRecommendationGeneratedEvent stamps a recommendation event with
// the current time.
func NewRecommendationGeneratedEvent(userID string, productIDs []string, algorithm string) *RecommendationGeneratedEvent {
	return &RecommendationGeneratedEvent{
		UserID:                userID,
		RecommendedProductIDs: productIDs,
		GeneratedAt:           time.Now().UTC(),
		AlgorithmUsed:         algorithm,
	}
}

// NewMessageID returns a unique message ID for publishing.
func NewMessageID() string {
	return uuid.New().String()
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
