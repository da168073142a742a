// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package eventprocessor

import (
	"testing"
)

func TestUnmarshalOrderCreated(t *testing.T) {
	s := NewSerializer()

	payload := []byte(`{
		"order_id": "o42",
		"user_id": "u7",
		"items": [
			{"product_id": "p1", "quantity": 2, "price": 19.99},
			{"product_id": "p2", "quantity": 1, "price": 5.00}
		],
		"created_at": "2026-08-20T10:00:00Z"
	}`)

	event, err := s.UnmarshalOrderCreated(payload)
	if err != nil {
		t.Fatalf("UnmarshalOrderCreated() error: %v", err)
	}
	if event.OrderID != "o42" || event.UserID != "u7" {
		t.Errorf("identifiers = %q/%q, want o42/u7", event.OrderID, event.UserID)
	}
	if len(event.Items) != 2 || event.Items[0].Quantity != 2 || event.Items[0].Price != 19.99 {
		t.Errorf("items = %+v", event.Items)
	}
}

func TestUnmarshalOrderCreatedRejectsInvalid(t *testing.T) {
	s := NewSerializer()

	tests := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{"order_id": `},
		{"missing user", `{"order_id": "o1", "items": []}`},
		{"zero quantity item", `{"order_id": "o1", "user_id": "u1", "items": [{"product_id": "p1", "quantity": 0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.UnmarshalOrderCreated([]byte(tt.payload)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestUnmarshalProductViewed(t *testing.T) {
	s := NewSerializer()

	payload := []byte(`{
		"user_id": "u7",
		"product_id": "p1",
		"viewed_at": "2026-08-20T10:00:00Z",
		"duration": 45,
		"source": "search"
	}`)

	event, err := s.UnmarshalProductViewed(payload)
	if err != nil {
		t.Fatalf("UnmarshalProductViewed() error: %v", err)
	}
	if event.UserID != "u7" || event.ProductID != "p1" || event.Duration != 45 || event.Source != "search" {
		t.Errorf("event = %+v", event)
	}
}

func TestMarshalOrderCreatedValidatesFirst(t *testing.T) {
	s := NewSerializer()
	if _, err := s.MarshalOrderCreated(&OrderCreatedEvent{UserID: "u1"}); err == nil {
		t.Error("expected validation error for missing order_id, got nil")
	}
}
