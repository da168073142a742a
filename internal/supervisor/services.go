// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shopgraph/shopgraph/internal/logging"
)

// HTTPServerService adapts an http.Server to the suture.Service
// interface. The server is shut down gracefully when the supervision
// context is canceled.
type HTTPServerService struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

// NewHTTPServerService wraps an http.Server for supervision.
func NewHTTPServerService(server *http.Server, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
	}
}

// Serve implements suture.Service. Blocks until the listener fails or
// the context is canceled.
func (s *HTTPServerService) Serve(ctx context.Context) error {
	logging.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			logging.Warn().Err(err).Msg("HTTP server shutdown incomplete")
		}
		<-errCh
		return ctx.Err()
	}
}

// EventRouter is the part of the event router the supervisor drives.
// Satisfied by *eventprocessor.Router.
type EventRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// EventRouterService adapts the Watermill event router to the
// suture.Service interface. If the router exits while the context is
// alive, suture restarts it and NATS redelivers unacked messages.
type EventRouterService struct {
	router EventRouter
}

// NewEventRouterService wraps the event router for supervision.
func NewEventRouterService(router EventRouter) *EventRouterService {
	return &EventRouterService{router: router}
}

// Serve implements suture.Service. Run blocks until the router stops.
func (s *EventRouterService) Serve(ctx context.Context) error {
	logging.Info().Msg("starting event router")

	err := s.router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
