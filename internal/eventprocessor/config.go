// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package eventprocessor

import "time"

// ServerConfig holds embedded NATS server configuration.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// DefaultServerConfig returns production defaults for the embedded NATS server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          "/data/nats/jetstream",
		JetStreamMaxMem:   1 << 30,  // 1GB
		JetStreamMaxStore: 10 << 30, // 10GB
	}
}

// PublisherConfig holds publisher configuration.
type PublisherConfig struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool // nolint:revive // ID is correct per Go conventions
}

// DefaultPublisherConfig returns production defaults for the publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		MaxReconnects:    -1, // Unlimited
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024, // 8MB
		EnableTrackMsgID: true,
	}
}

// SubscriberConfig holds subscriber configuration.
type SubscriberConfig struct {
	URL              string
	DurableName      string
	QueueGroup       string
	SubscribersCount int
	AckWaitTimeout   time.Duration
	MaxDeliver       int
	MaxAckPending    int
	CloseTimeout     time.Duration
	MaxReconnects    int
	ReconnectWait    time.Duration

	// StreamName binds the subscriber to an existing JetStream stream.
	// Required because the stream is pre-created by StreamInitializer
	// and its name cannot be derived from a subject.
	StreamName string
}

// DefaultSubscriberConfig returns production defaults for the subscriber.
//
// SubscribersCount > 1 trades strict per-subject ordering for
// throughput. Purchase recording is idempotent at the edge level, so
// out-of-order delivery only perturbs the latest-wins edge properties.
func DefaultSubscriberConfig(url string) SubscriberConfig {
	return SubscriberConfig{
		URL:              url,
		DurableName:      "recommendation-engine",
		QueueGroup:       "recommenders",
		SubscribersCount: 4,
		AckWaitTimeout:   30 * time.Second,
		MaxDeliver:       5,    // Max redelivery attempts
		MaxAckPending:    1000, // Flow control
		CloseTimeout:     30 * time.Second,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		StreamName:       DefaultStreamConfig().Name,
	}
}

// StreamConfig defines shop event stream settings.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	MaxMsgs         int64
	DuplicateWindow time.Duration
	Replicas        int
}

// DefaultStreamConfig returns production stream configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Name: "SHOP_EVENTS",
		Subjects: []string{
			"orders.>",
			"products.>",
			"recommendations.>",
		},
		MaxAge:          7 * 24 * time.Hour,      // 7 days
		MaxBytes:        10 * 1024 * 1024 * 1024, // 10GB
		MaxMsgs:         -1,                      // Unlimited
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}

// RouterConfig holds configuration for the Watermill router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// Throttle configuration (messages per second, 0 = disabled)
	ThrottlePerSecond int64

	// PoisonQueueTopic receives messages that fail after all retries.
	PoisonQueueTopic string
}

// DefaultRouterConfig returns production defaults for the router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      5,
		RetryInitialInterval: time.Second,
		RetryMaxInterval:     time.Minute,
		RetryMultiplier:      2.0,
		ThrottlePerSecond:    0,
		PoisonQueueTopic:     "shop.events.poison",
	}
}
