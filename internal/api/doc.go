// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

// Package api is the HTTP boundary of the recommendation service. It
// routes requests with chi, validates inputs before they reach the
// engine, and serializes results into a standardized response envelope.
package api
