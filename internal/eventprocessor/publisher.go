// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/shopgraph/shopgraph/internal/metrics"
)

// Publisher wraps the Watermill NATS publisher with reconnection
// handling and message-ID based deduplication.
type Publisher struct {
	publisher  message.Publisher
	serializer *Serializer
	mu         sync.RWMutex
	closed     bool
	logger     watermill.LoggerAdapter
}

// NewPublisher creates a Watermill NATS publisher configured for
// JetStream with message ID tracking.
func NewPublisher(cfg PublisherConfig, logger watermill.LoggerAdapter) (*Publisher, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.ReconnectBufSize(cfg.ReconnectBuffer),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false, // Stream is pre-created by StreamInitializer
			TrackMsgId:    cfg.EnableTrackMsgID,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return &Publisher{
		publisher:  pub,
		serializer: NewSerializer(),
		logger:     logger,
	}, nil
}

// Publish sends a message to the specified topic. The message UUID is
// used as Nats-Msg-Id for deduplication if not already set.
func (p *Publisher) Publish(_ context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return fmt.Errorf("publisher is closed")
	}
	p.mu.RUnlock()

	if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}

	err := p.publisher.Publish(topic, msg)
	if err == nil {
		metrics.RecordEventPublished(topic)
	}
	return err
}

// PublishOrderCreated serializes and publishes an order event.
func (p *Publisher) PublishOrderCreated(ctx context.Context, event *OrderCreatedEvent) error {
	data, err := p.serializer.MarshalOrderCreated(event)
	if err != nil {
		return fmt.Errorf("serialize order event: %w", err)
	}

	msg := message.NewMessage(NewMessageID(), data)
	msg.Metadata.Set("order_id", event.OrderID)
	msg.Metadata.Set("user_id", event.UserID)

	return p.Publish(ctx, TopicOrderCreated, msg)
}

// PublishProductViewed serializes and publishes a view event.
func (p *Publisher) PublishProductViewed(ctx context.Context, event *ProductViewedEvent) error {
	data, err := p.serializer.MarshalProductViewed(event)
	if err != nil {
		return fmt.Errorf("serialize view event: %w", err)
	}

	msg := message.NewMessage(NewMessageID(), data)
	msg.Metadata.Set("user_id", event.UserID)
	msg.Metadata.Set("product_id", event.ProductID)

	return p.Publish(ctx, TopicProductViewed, msg)
}

// PublishRecommendationGenerated publishes a recommendation
// notification for downstream consumers.
func (p *Publisher) PublishRecommendationGenerated(ctx context.Context, event *RecommendationGeneratedEvent) error {
	data, err := p.serializer.MarshalRecommendationGenerated(event)
	if err != nil {
		return fmt.Errorf("serialize recommendation event: %w", err)
	}

	msg := message.NewMessage(NewMessageID(), data)
	msg.Metadata.Set("user_id", event.UserID)

	return p.Publish(ctx, TopicRecommendationGenerated, msg)
}

// Close gracefully shuts down the publisher.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	return p.publisher.Close()
}

// WatermillPublisher returns the underlying Watermill publisher, for
// components that require the native message.Publisher interface
// (e.g. poison queue middleware).
func (p *Publisher) WatermillPublisher() message.Publisher {
	return p.publisher
}
