// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

// Package testinfra provides container-based test infrastructure.
// Everything here is gated behind the integration build tag; unit test
// builds never pull in testcontainers.
package testinfra
