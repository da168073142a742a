// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/shopgraph/shopgraph/internal/metrics"
	"github.com/shopgraph/shopgraph/internal/recommend"
)

// RecommendationIngester is the subset of the recommendation service
// the event handlers need.
type RecommendationIngester interface {
	RecordPurchase(ctx context.Context, userID, orderID string, items []recommend.PurchaseItem) error
	RecordView(ctx context.Context, userID, productID string, duration int, source string) error
}

// Handlers processes shop events into the recommendation engine.
type Handlers struct {
	service    RecommendationIngester
	serializer *Serializer
	logger     zerolog.Logger
}

// NewHandlers creates event handlers over the recommendation service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandlers(service RecommendationIngester, logger zerolog.Logger) *Handlers {
	return &Handlers{
		service:    service,
		serializer: NewSerializer(),
		logger:     logger.With().Str("component", "eventprocessor").Logger(),
	}
}

// Register wires both event handlers onto the router.
func (h *Handlers) Register(router *Router, subscriber *Subscriber) {
	router.AddConsumerHandler(
		"order-created",
		TopicOrderCreated,
		subscriber.WatermillSubscriber(),
		h.HandleOrderCreated,
	)
	router.AddConsumerHandler(
		"product-viewed",
		TopicProductViewed,
		subscriber.WatermillSubscriber(),
		h.HandleProductViewed,
	)
}

// HandleOrderCreated records an order's items as purchases. Failures
// propagate so the message is nacked and redelivered; messages that
// exhaust retries land on the poison queue.
func (h *Handlers) HandleOrderCreated(msg *message.Message) error {
	event, err := h.serializer.UnmarshalOrderCreated(msg.Payload)
	if err != nil {
		metrics.RecordEventFailed(TopicOrderCreated)
		return fmt.Errorf("decode order message %s: %w", msg.UUID, err)
	}

	h.logger.Info().
		Str("order_id", event.OrderID).
		Str("user_id", event.UserID).
		Int("items", len(event.Items)).
		Msg("processing order event")

	items := make([]recommend.PurchaseItem, 0, len(event.Items))
	for _, it := range event.Items {
		items = append(items, recommend.PurchaseItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	if err := h.service.RecordPurchase(msg.Context(), event.UserID, event.OrderID, items); err != nil {
		metrics.RecordEventFailed(TopicOrderCreated)
		return fmt.Errorf("record order %s: %w", event.OrderID, err)
	}

	metrics.RecordEventProcessed(TopicOrderCreated)
	return nil
}

// HandleProductViewed records a product view. Views are non-critical:
// every message is acked, including undecodable ones, so a bad view
// event never clogs the stream.
func (h *Handlers) HandleProductViewed(msg *message.Message) error {
	event, err := h.serializer.UnmarshalProductViewed(msg.Payload)
	if err != nil {
		h.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping undecodable view event")
		metrics.RecordEventFailed(TopicProductViewed)
		return nil
	}

	// RecordView suppresses store failures internally.
	if err := h.service.RecordView(msg.Context(), event.UserID, event.ProductID, event.Duration, event.Source); err != nil {
		h.logger.Warn().Err(err).Str("product_id", event.ProductID).Msg("view recording failed")
		metrics.RecordEventFailed(TopicProductViewed)
		return nil
	}

	metrics.RecordEventProcessed(TopicProductViewed)
	return nil
}
