// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

// Package eventprocessor consumes shop events from NATS JetStream and
// feeds them into the recommendation engine.
//
// Two event families are processed:
//
//   - orders.created: recorded as PURCHASED edges in the graph. Failures
//     propagate so JetStream redelivers; messages that keep failing land
//     on the poison queue.
//   - products.viewed: recorded as VIEWED edges. View recording is
//     non-critical, so these handlers always ack.
//
// The package also hosts the optional embedded NATS server for
// single-instance deployments and the JetStream stream initializer.
package eventprocessor
