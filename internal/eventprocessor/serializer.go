// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package eventprocessor

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Serializer handles event encoding/decoding for NATS messages.
type Serializer struct{}

// NewSerializer creates a new serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// MarshalOrderCreated validates and encodes an order event.
func (s *Serializer) MarshalOrderCreated(event *OrderCreatedEvent) ([]byte, error) {
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("validate order event: %w", err)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal order event: %w", err)
	}
	return data, nil
}

// UnmarshalOrderCreated decodes and validates an order event.
func (s *Serializer) UnmarshalOrderCreated(data []byte) (*OrderCreatedEvent, error) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal order event: %w", err)
	}
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("validate order event: %w", err)
	}
	return &event, nil
}

// MarshalProductViewed validates and encodes a view event.
func (s *Serializer) MarshalProductViewed(event *ProductViewedEvent) ([]byte, error) {
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("validate view event: %w", err)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal view event: %w", err)
	}
	return data, nil
}

// UnmarshalProductViewed decodes and validates a view event.
func (s *Serializer) UnmarshalProductViewed(data []byte) (*ProductViewedEvent, error) {
	var event ProductViewedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal view event: %w", err)
	}
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("validate view event: %w", err)
	}
	return &event, nil
}

// MarshalRecommendationGenerated encodes a recommendation notification.
func (s *Serializer) MarshalRecommendationGenerated(event *RecommendationGeneratedEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal recommendation event: %w", err)
	}
	return data, nil
}
