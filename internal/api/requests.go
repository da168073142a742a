// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/shopgraph/shopgraph/internal/recommend"
)

// ViewRequest is the body of POST /api/v1/recommendations/view.
type ViewRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	ProductID string `json:"product_id" validate:"required"`

	// Duration is how long the product page was open, in seconds.
	Duration int `json:"duration" validate:"min=0"`

	// Source is where the view originated (search, category, direct).
	Source string `json:"source"`
}

// PurchaseItemRequest is one line of a purchase request.
type PurchaseItemRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"min=1"`
	Price     float64 `json:"price" validate:"gt=0"`
}

// PurchaseRequest is the body of POST /api/v1/recommendations/purchase.
type PurchaseRequest struct {
	UserID  string                `json:"user_id" validate:"required"`
	OrderID string                `json:"order_id" validate:"required"`
	Items   []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseItems converts the request lines into engine purchase items.
func (pr *PurchaseRequest) PurchaseItems() []recommend.PurchaseItem {
	items := make([]recommend.PurchaseItem, len(pr.Items))
	for i, item := range pr.Items {
		items[i] = recommend.PurchaseItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	return items
}

// decodeBody decodes a JSON request body into dst, rejecting unknown
// fields so malformed payloads fail loudly at the boundary.
func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// queryInt parses an integer query parameter, returning def when the
// parameter is absent or not a positive integer.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// clampLimit bounds a requested limit to max, with max <= 0 meaning
// unbounded.
func clampLimit(limit, max int) int {
	if max > 0 && limit > max {
		return max
	}
	return limit
}
