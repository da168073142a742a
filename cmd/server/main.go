// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/shopgraph/shopgraph/internal/api"
	"github.com/shopgraph/shopgraph/internal/config"
	"github.com/shopgraph/shopgraph/internal/graph"
	"github.com/shopgraph/shopgraph/internal/logging"
	"github.com/shopgraph/shopgraph/internal/recommend"
	"github.com/shopgraph/shopgraph/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.Logger()
	logging.Info().
		Str("neo4j_uri", cfg.Neo4j.URI).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Msg("starting shopgraph")

	store, err := graph.New(ctx, graph.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	}, logger)
	if err != nil {
		return fmt.Errorf("connect graph store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logging.Warn().Err(err).Msg("graph store close failed")
		}
	}()

	service := recommend.NewService(store, logger)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	var messaging *messagingComponents
	if cfg.NATS.Enabled {
		messaging, err = initMessaging(ctx, cfg, service, logger)
		if err != nil {
			return fmt.Errorf("init messaging: %w", err)
		}
		defer messaging.Close()

		tree.AddMessagingService(supervisor.NewEventRouterService(messaging.router))
	}

	handler := api.NewHandler(service, store, api.HandlerConfig{
		DefaultLimit: cfg.API.DefaultLimit,
		MaxLimit:     cfg.API.MaxLimit,
	}, logger)
	if messaging != nil {
		handler.SetEventPublisher(messaging.publisher)
	}

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.API.CORSOrigins
	mwConfig.RateLimitRequests = cfg.API.RateLimitRequests
	mwConfig.RateLimitWindow = cfg.API.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.API.RateLimitDisabled

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      api.NewRouter(handler, mwConfig).Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Info().Msg("shopgraph stopped")
	return nil
}
