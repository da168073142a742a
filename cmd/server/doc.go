// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

// Command server runs the Shopgraph recommendation service: the HTTP
// API, the Neo4j-backed graph store, and (when enabled) the NATS
// JetStream event ingestion pipeline, all under one supervision tree.
package main
