// SPDX-License-Identifier: MIT

package engine

// Test bridge: exposes package metrics to engine_test.
var (
	DimensionErrorsMetric = dimensionErrors
	RecomputeTotalMetric  = recomputeTotal
)
