// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shopgraph/shopgraph/internal/eventprocessor"
	"github.com/shopgraph/shopgraph/internal/metrics"
	"github.com/shopgraph/shopgraph/internal/recommend"
	"github.com/shopgraph/shopgraph/internal/validation"
)

// Algorithm labels used for metrics and recommendation events.
const (
	algorithmCollaborative = "collaborative"
	algorithmContent       = "content"
	algorithmTrending      = "trending"
)

// RecommendationService is the engine contract the HTTP layer depends
// on. Satisfied by *recommend.Service.
type RecommendationService interface {
	PersonalizedRecommendations(ctx context.Context, userID string, limit int) ([]recommend.RecommendedProduct, error)
	SimilarProducts(ctx context.Context, productID string, limit int) ([]recommend.SimilarProduct, error)
	TrendingProducts(ctx context.Context, days, limit int) ([]recommend.TrendingProduct, error)
	UserHistory(ctx context.Context, userID string, limit int) ([]recommend.HistoryEntry, error)
	RecordView(ctx context.Context, userID, productID string, duration int, source string) error
	RecordPurchase(ctx context.Context, userID, orderID string, items []recommend.PurchaseItem) error
}

// StorePinger reports graph store reachability for health checks.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// EventPublisher publishes recommendation notifications to the event
// bus. Satisfied by *eventprocessor.Publisher; optional.
type EventPublisher interface {
	PublishRecommendationGenerated(ctx context.Context, event *eventprocessor.RecommendationGeneratedEvent) error
}

// Handler holds the service dependencies for all API endpoints.
type Handler struct {
	service   RecommendationService
	store     StorePinger
	events    EventPublisher
	logger    zerolog.Logger
	startTime time.Time

	defaultLimit int
	maxLimit     int
}

// HandlerConfig carries the boundary limits for query parameters.
type HandlerConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// NewHandler creates the API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(service RecommendationService, store StorePinger, cfg HandlerConfig, logger zerolog.Logger) *Handler {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = recommend.DefaultRecommendationLimit
	}

	return &Handler{
		service:      service,
		store:        store,
		logger:       logger.With().Str("component", "api").Logger(),
		startTime:    time.Now(),
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
	}
}

// SetEventPublisher sets the optional publisher for recommendation
// notifications. Passing nil disables publishing. Call once during
// startup, before the server accepts traffic.
func (h *Handler) SetEventPublisher(publisher EventPublisher) {
	h.events = publisher
}

// GetRecommendations handles GET /api/v1/recommendations/{userID}.
// Returns personalized recommendations for a user.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("user ID is required")
		return
	}

	limit := clampLimit(queryInt(r, "limit", h.defaultLimit), h.maxLimit)

	recommendations, err := h.service.PersonalizedRecommendations(r.Context(), userID, limit)
	if err != nil {
		rw.StorageError(err)
		return
	}

	metrics.RecordRecommendationsServed(algorithmCollaborative, len(recommendations))
	h.publishRecommendationEvent(userID, algorithmCollaborative, productIDsOf(recommendations))

	rw.SuccessWithCount(map[string]interface{}{
		"user_id":         userID,
		"recommendations": recommendations,
	}, len(recommendations))
}

// GetSimilar handles GET /api/v1/recommendations/similar/{productID}.
// Returns products in the same category as the given product.
func (h *Handler) GetSimilar(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	productID := chi.URLParam(r, "productID")
	if productID == "" {
		rw.BadRequest("product ID is required")
		return
	}

	limit := clampLimit(queryInt(r, "limit", recommend.DefaultSimilarLimit), h.maxLimit)

	similar, err := h.service.SimilarProducts(r.Context(), productID, limit)
	if err != nil {
		rw.StorageError(err)
		return
	}

	metrics.RecordRecommendationsServed(algorithmContent, len(similar))

	rw.SuccessWithCount(map[string]interface{}{
		"product_id": productID,
		"similar":    similar,
	}, len(similar))
}

// GetTrending handles GET /api/v1/recommendations/trending.
// Returns products trending over the trailing window of days.
func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	days := queryInt(r, "days", recommend.DefaultTrendingDays)
	limit := clampLimit(queryInt(r, "limit", recommend.DefaultTrendingLimit), h.maxLimit)

	trending, err := h.service.TrendingProducts(r.Context(), days, limit)
	if err != nil {
		rw.StorageError(err)
		return
	}

	metrics.RecordRecommendationsServed(algorithmTrending, len(trending))

	rw.SuccessWithCount(map[string]interface{}{
		"window_days": days,
		"trending":    trending,
	}, len(trending))
}

// GetHistory handles GET /api/v1/recommendations/history/{userID}.
// Returns the user's purchase history, most recent first.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("user ID is required")
		return
	}

	limit := clampLimit(queryInt(r, "limit", recommend.DefaultHistoryLimit), h.maxLimit)

	history, err := h.service.UserHistory(r.Context(), userID, limit)
	if err != nil {
		rw.StorageError(err)
		return
	}

	rw.SuccessWithCount(map[string]interface{}{
		"user_id": userID,
		"history": history,
	}, len(history))
}

// PostView handles POST /api/v1/recommendations/view.
// Records a product view. View recording is non-critical, so a store
// failure behind the engine never surfaces here.
func (h *Handler) PostView(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ViewRequest
	if err := decodeBody(r, &req); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	if err := h.service.RecordView(r.Context(), req.UserID, req.ProductID, req.Duration, req.Source); err != nil {
		rw.StorageError(err)
		return
	}

	rw.Accepted(map[string]interface{}{
		"user_id":    req.UserID,
		"product_id": req.ProductID,
	})
}

// PostPurchase handles POST /api/v1/recommendations/purchase.
// Records an order's items sequentially; a mid-sequence store failure
// leaves the already-written prefix in place and fails the request.
func (h *Handler) PostPurchase(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req PurchaseRequest
	if err := decodeBody(r, &req); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	if err := h.service.RecordPurchase(r.Context(), req.UserID, req.OrderID, req.PurchaseItems()); err != nil {
		rw.StorageError(err)
		return
	}

	rw.Accepted(map[string]interface{}{
		"user_id":  req.UserID,
		"order_id": req.OrderID,
		"items":    len(req.Items),
	})
}

// Health handles GET /healthz. Reports store connectivity; degraded
// when the graph store is unreachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	storeConnected := h.store != nil && h.store.Ping(r.Context()) == nil

	status := "healthy"
	if !storeConnected {
		status = "degraded"
	}

	data := map[string]interface{}{
		"status":          status,
		"store_connected": storeConnected,
		"uptime_seconds":  time.Since(h.startTime).Seconds(),
	}

	if !storeConnected {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"graph store unreachable", data)
		return
	}
	rw.Success(data)
}

// publishRecommendationEvent publishes a recommendation notification if
// a publisher is configured. Publishing happens asynchronously and
// failures are logged, never surfaced: notification is best-effort.
func (h *Handler) publishRecommendationEvent(userID, algorithm string, productIDs []string) {
	if h.events == nil || len(productIDs) == 0 {
		return
	}

	event := eventprocessor.NewRecommendationGeneratedEvent(userID, productIDs, algorithm)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.events.PublishRecommendationGenerated(ctx, event); err != nil {
			h.logger.Warn().
				Err(err).
				Str("user_id", userID).
				Msg("failed to publish recommendation event")
		}
	}()
}

func productIDsOf(recommendations []recommend.RecommendedProduct) []string {
	ids := make([]string, len(recommendations))
	for i, rec := range recommendations {
		ids[i] = rec.ProductID
	}
	return ids
}
