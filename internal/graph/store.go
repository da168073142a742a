// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

// Package graph implements the recommendation engine's Store contract
// on Neo4j. Users and products are nodes; views and purchases are
// relationships carrying their latest event's properties plus
// cumulative counters on the product node.
package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"

	"github.com/shopgraph/shopgraph/internal/metrics"
)

// Config holds Neo4j connection settings.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// Store is the Neo4j-backed graph store. All methods are safe for
// concurrent use; the driver manages its own connection pool.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
	logger   zerolog.Logger
}

// New connects to Neo4j and verifies connectivity before returning.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(ctx context.Context, cfg Config, logger zerolog.Logger) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("connecting to neo4j: %w", err)
	}

	database := cfg.Database
	if database == "" {
		database = "neo4j"
	}

	return &Store{
		driver:   driver,
		database: database,
		logger:   logger.With().Str("component", "graph").Logger(),
	}, nil
}

// Close releases the driver's connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// Ping verifies the store is reachable. Used by health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

// execWrite runs a single write query inside a managed transaction and
// consumes the result. op labels the query duration metric.
func (s *Store) execWrite(ctx context.Context, op, query string, params map[string]any) (err error) {
	start := time.Now()
	defer func() { metrics.RecordGraphQuery(op, time.Since(start), err) }()

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer func() { _ = session.Close(ctx) }()

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		_, err = result.Consume(ctx)
		return nil, err
	})
	return err
}

// queryRecords runs a read query inside a managed transaction and
// collects all records before the session closes.
func (s *Store) queryRecords(ctx context.Context, op, query string, params map[string]any) (_ []*neo4j.Record, err error) {
	start := time.Now()
	defer func() { metrics.RecordGraphQuery(op, time.Since(start), err) }()

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer func() { _ = session.Close(ctx) }()

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return records.([]*neo4j.Record), nil
}

// queryRecordsWrite is queryRecords for queries that MERGE before they
// read. Neo4j rejects writes inside a read transaction, so history and
// personalized lookups that upsert the user node must go through here.
func (s *Store) queryRecordsWrite(ctx context.Context, op, query string, params map[string]any) (_ []*neo4j.Record, err error) {
	start := time.Now()
	defer func() { metrics.RecordGraphQuery(op, time.Since(start), err) }()

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer func() { _ = session.Close(ctx) }()

	records, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return records.([]*neo4j.Record), nil
}
