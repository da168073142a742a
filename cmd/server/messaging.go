// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"github.com/shopgraph/shopgraph/internal/config"
	"github.com/shopgraph/shopgraph/internal/eventprocessor"
	"github.com/shopgraph/shopgraph/internal/logging"
)

// messagingComponents bundles the NATS event pipeline so run() can wire
// it into the supervisor and tear it down in one place.
type messagingComponents struct {
	embedded   *eventprocessor.EmbeddedServer
	conn       *nats.Conn
	publisher  *eventprocessor.Publisher
	subscriber *eventprocessor.Subscriber
	router     *eventprocessor.Router
}

// initMessaging starts the event pipeline: optional embedded NATS
// server, JetStream stream creation, publisher, subscriber, and the
// Watermill router with handlers registered.
func initMessaging(
	ctx context.Context,
	cfg *config.Config,
	service eventprocessor.RecommendationIngester,
	logger zerolog.Logger,
) (components *messagingComponents, err error) {
	components = &messagingComponents{}
	defer func() {
		if err != nil {
			components.Close()
		}
	}()

	url := cfg.NATS.URL
	if cfg.NATS.EmbeddedServer {
		serverCfg := eventprocessor.DefaultServerConfig()
		serverCfg.StoreDir = cfg.NATS.StoreDir
		serverCfg.JetStreamMaxMem = cfg.NATS.MaxMemory
		serverCfg.JetStreamMaxStore = cfg.NATS.MaxStore

		components.embedded, err = eventprocessor.NewEmbeddedServer(&serverCfg)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		url = components.embedded.ClientURL()
	}

	// Dedicated connection for stream management. The publisher and
	// subscriber maintain their own connections.
	components.conn, err = nats.Connect(url,
		nats.MaxReconnects(cfg.NATS.MaxReconnects),
		nats.ReconnectWait(cfg.NATS.ReconnectWait),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}

	js, err := jetstream.New(components.conn)
	if err != nil {
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	streamCfg := eventprocessor.DefaultStreamConfig()
	if cfg.NATS.StreamName != "" {
		streamCfg.Name = cfg.NATS.StreamName
	}
	initializer, err := eventprocessor.NewStreamInitializer(js, &streamCfg)
	if err != nil {
		return nil, fmt.Errorf("create stream initializer: %w", err)
	}
	if _, err = initializer.EnsureStream(ctx); err != nil {
		return nil, fmt.Errorf("ensure stream %s: %w", streamCfg.Name, err)
	}

	wmLogger := eventprocessor.NewZerologAdapter(logger)

	pubCfg := eventprocessor.DefaultPublisherConfig(url)
	pubCfg.MaxReconnects = cfg.NATS.MaxReconnects
	pubCfg.ReconnectWait = cfg.NATS.ReconnectWait
	components.publisher, err = eventprocessor.NewPublisher(pubCfg, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create publisher: %w", err)
	}

	subCfg := eventprocessor.DefaultSubscriberConfig(url)
	subCfg.StreamName = streamCfg.Name
	if cfg.NATS.DurableName != "" {
		subCfg.DurableName = cfg.NATS.DurableName
	}
	if cfg.NATS.QueueGroup != "" {
		subCfg.QueueGroup = cfg.NATS.QueueGroup
	}
	if cfg.NATS.SubscribersCount > 0 {
		subCfg.SubscribersCount = cfg.NATS.SubscribersCount
	}
	if cfg.NATS.AckWaitTimeout > 0 {
		subCfg.AckWaitTimeout = cfg.NATS.AckWaitTimeout
	}
	subCfg.MaxReconnects = cfg.NATS.MaxReconnects
	subCfg.ReconnectWait = cfg.NATS.ReconnectWait
	components.subscriber, err = eventprocessor.NewSubscriber(&subCfg, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}

	routerCfg := eventprocessor.DefaultRouterConfig()
	if cfg.NATS.RouterRetryCount > 0 {
		routerCfg.RetryMaxRetries = cfg.NATS.RouterRetryCount
	}
	if cfg.NATS.RouterRetryInitialInterval > 0 {
		routerCfg.RetryInitialInterval = cfg.NATS.RouterRetryInitialInterval
	}
	if cfg.NATS.RouterCloseTimeout > 0 {
		routerCfg.CloseTimeout = cfg.NATS.RouterCloseTimeout
	}
	routerCfg.PoisonQueueTopic = cfg.NATS.RouterPoisonQueueTopic
	components.router, err = eventprocessor.NewRouter(&routerCfg, components.publisher.WatermillPublisher(), wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create event router: %w", err)
	}

	eventprocessor.NewHandlers(service, logger).Register(components.router, components.subscriber)

	logging.Info().
		Str("url", url).
		Str("stream", streamCfg.Name).
		Bool("embedded", cfg.NATS.EmbeddedServer).
		Msg("event pipeline ready")

	return components, nil
}

// Close tears down the pipeline in reverse order of construction. Safe
// to call on a partially initialized bundle.
func (m *messagingComponents) Close() {
	if m.router != nil {
		if err := m.router.Close(); err != nil {
			logging.Warn().Err(err).Msg("event router close failed")
		}
	}
	if m.subscriber != nil {
		if err := m.subscriber.Close(); err != nil {
			logging.Warn().Err(err).Msg("subscriber close failed")
		}
	}
	if m.publisher != nil {
		if err := m.publisher.Close(); err != nil {
			logging.Warn().Err(err).Msg("publisher close failed")
		}
	}
	if m.conn != nil {
		m.conn.Close()
	}
	if m.embedded != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.embedded.Shutdown(ctx); err != nil {
			logging.Warn().Err(err).Msg("embedded NATS shutdown failed")
		}
	}
}
