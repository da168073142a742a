// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopgraph/shopgraph/internal/middleware"
)

// Router wires handlers and middleware into the HTTP routing tree.
type Router struct {
	handler *Handler
	chimw   *ChiMiddleware
}

// NewRouter creates a router over the given handler. A nil middleware
// config uses secure defaults.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler: handler,
		chimw:   NewChiMiddleware(mwConfig),
	}
}

// Setup builds the routing tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chimw.CORS())

	// Health probe. Permissive rate limiting so monitoring can poll
	// frequently without being locked out.
	r.Group(func(r chi.Router) {
		r.Use(router.chimw.RateLimitHealth())
		r.Get("/healthz", router.handler.Health)
	})

	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		// Query endpoints
		r.Group(func(r chi.Router) {
			r.Use(router.chimw.RateLimit())

			r.Get("/trending", router.handler.GetTrending)
			r.Get("/similar/{productID}", router.handler.GetSimilar)
			r.Get("/history/{userID}", router.handler.GetHistory)
			r.Get("/{userID}", router.handler.GetRecommendations)
		})

		// Ingestion endpoints
		r.Group(func(r chi.Router) {
			r.Use(router.chimw.RateLimitWrite())

			r.Post("/view", router.handler.PostView)
			r.Post("/purchase", router.handler.PostPurchase)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
