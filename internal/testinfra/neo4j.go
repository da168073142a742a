// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultNeo4jImage is the Neo4j Docker image used for integration tests.
	DefaultNeo4jImage = "neo4j:5-community"

	// DefaultNeo4jBoltPort is the Bolt protocol port.
	DefaultNeo4jBoltPort = "7687"

	// DefaultNeo4jUsername and DefaultNeo4jPassword are the test credentials.
	DefaultNeo4jUsername = "neo4j"
	DefaultNeo4jPassword = "testpassword"
)

// Neo4jContainer represents a running Neo4j container for testing.
type Neo4jContainer struct {
	testcontainers.Container
	URI      string
	Username string
	Password string
}

// Neo4jOption configures the Neo4j container.
type Neo4jOption func(*neo4jConfig)

type neo4jConfig struct {
	image        string
	password     string
	startTimeout time.Duration
}

// WithNeo4jImage sets a custom Neo4j Docker image.
func WithNeo4jImage(image string) Neo4jOption {
	return func(c *neo4jConfig) {
		c.image = image
	}
}

// WithNeo4jPassword sets a custom password for the test instance.
func WithNeo4jPassword(password string) Neo4jOption {
	return func(c *neo4jConfig) {
		c.password = password
	}
}

// WithNeo4jStartTimeout sets the timeout for waiting for Neo4j to start.
func WithNeo4jStartTimeout(timeout time.Duration) Neo4jOption {
	return func(c *neo4jConfig) {
		c.startTimeout = timeout
	}
}

// NewNeo4jContainer creates and starts a Neo4j container for testing.
//
// Example:
//
//	ctx := context.Background()
//	db, err := NewNeo4jContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer db.Terminate(ctx)
//
//	store, err := graph.New(ctx, graph.Config{URI: db.URI, Username: db.Username, Password: db.Password}, logger)
func NewNeo4jContainer(ctx context.Context, opts ...Neo4jOption) (*Neo4jContainer, error) {
	cfg := &neo4jConfig{
		image:        DefaultNeo4jImage,
		password:     DefaultNeo4jPassword,
		startTimeout: 120 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultNeo4jBoltPort + "/tcp"},
		Env: map[string]string{
			"NEO4J_AUTH": DefaultNeo4jUsername + "/" + cfg.password,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultNeo4jBoltPort+"/tcp"),
			wait.ForLog("Started."),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("starting neo4j container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving container host: %w", err)
	}

	port, err := container.MappedPort(ctx, DefaultNeo4jBoltPort+"/tcp")
	if err != nil {
		return nil, fmt.Errorf("resolving mapped bolt port: %w", err)
	}

	return &Neo4jContainer{
		Container: container,
		URI:       fmt.Sprintf("bolt://%s:%s", host, port.Port()),
		Username:  DefaultNeo4jUsername,
		Password:  cfg.password,
	}, nil
}
