// Shopgraph - Graph-Backed Product Recommendation Service
// Copyright 2026 Shopgraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopgraph/shopgraph

package recommend

// trendSaturation is the in-window purchase count at which the trend
// score reaches 1.0.
const trendSaturation = 10

// TrendScore maps an in-window purchase count to [0,1] with a saturating
// linear normalization. Purchases inside the window are weighted equally
// regardless of recency.
func TrendScore(recentPurchases int) float64 {
	return saturate(float64(recentPurchases) / float64(trendSaturation))
}
