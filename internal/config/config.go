// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

// Package config loads and validates service configuration via Koanf v2
// with layered sources: built-in defaults, an optional YAML file, and
// environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Neo4j   Neo4jConfig   `koanf:"neo4j"`
	NATS    NATSConfig    `koanf:"nats"`
	API     APIConfig     `koanf:"api"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Neo4jConfig holds graph store connection settings.
type Neo4jConfig struct {
	URI      string `koanf:"uri"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Database string `koanf:"database"`
}

// NATSConfig holds event ingestion settings.
type NATSConfig struct {
	// Enabled turns the event ingestion pipeline on. When false the
	// service runs query-only and signals arrive solely via the HTTP API.
	Enabled bool `koanf:"enabled"`

	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
	MaxMemory      int64  `koanf:"max_memory"`
	MaxStore       int64  `koanf:"max_store"`

	StreamName       string        `koanf:"stream_name"`
	DurableName      string        `koanf:"durable_name"`
	QueueGroup       string        `koanf:"queue_group"`
	SubscribersCount int           `koanf:"subscribers_count"`
	AckWaitTimeout   time.Duration `koanf:"ack_wait_timeout"`
	MaxReconnects    int           `koanf:"max_reconnects"`
	ReconnectWait    time.Duration `koanf:"reconnect_wait"`

	// Router middleware settings (transport-level redelivery, not
	// engine-level retry).
	RouterRetryCount           int           `koanf:"router_retry_count"`
	RouterRetryInitialInterval time.Duration `koanf:"router_retry_initial_interval"`
	RouterPoisonQueueTopic     string        `koanf:"router_poison_queue_topic"`
	RouterCloseTimeout         time.Duration `koanf:"router_close_timeout"`
}

// APIConfig holds HTTP boundary settings.
type APIConfig struct {
	DefaultLimit      int           `koanf:"default_limit"`
	MaxLimit          int           `koanf:"max_limit"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Neo4j.URI == "" {
		return fmt.Errorf("neo4j.uri is required")
	}
	if c.API.DefaultLimit < 1 {
		return fmt.Errorf("api.default_limit must be positive")
	}
	if c.API.MaxLimit < c.API.DefaultLimit {
		return fmt.Errorf("api.max_limit %d below api.default_limit %d",
			c.API.MaxLimit, c.API.DefaultLimit)
	}
	if c.NATS.Enabled && !c.NATS.EmbeddedServer && c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required when nats is enabled without an embedded server")
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format %q must be json or console", c.Logging.Format)
	}
	return nil
}

// defaultConfig returns a Config with all defaults applied. These are
// overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8084,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Neo4j: Neo4jConfig{
			URI:      "bolt://127.0.0.1:7687",
			Username: "neo4j",
			Password: "",
			Database: "neo4j",
		},
		NATS: NATSConfig{
			Enabled:          true,
			URL:              "nats://127.0.0.1:4222",
			EmbeddedServer:   false,
			StoreDir:         "/data/nats/jetstream",
			MaxMemory:        1 << 30,  // 1GB
			MaxStore:         10 << 30, // 10GB
			StreamName:       "SHOP_EVENTS",
			DurableName:      "recommendation-engine",
			QueueGroup:       "recommenders",
			SubscribersCount: 4,
			AckWaitTimeout:   30 * time.Second,
			MaxReconnects:    -1,
			ReconnectWait:    2 * time.Second,

			RouterRetryCount:           3,
			RouterRetryInitialInterval: 100 * time.Millisecond,
			RouterPoisonQueueTopic:     "shop.events.poison",
			RouterCloseTimeout:         30 * time.Second,
		},
		API: APIConfig{
			DefaultLimit:      10,
			MaxLimit:          100,
			RequestTimeout:    10 * time.Second,
			CORSOrigins:       []string{},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
