// SPDX-License-Identifier: MIT

package engine

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	// recomputeTotal counts recompute cycles by mode and outcome
	// ("ok", "dimension_error", "canceled", "invalid").
	recomputeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matinspect_recompute_total",
		Help: "Recompute cycles by mode and outcome",
	}, []string{"mode", "outcome"})

	recomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matinspect_recompute_duration_seconds",
		Help:    "Recompute cycle duration",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
	})

	dimensionErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matinspect_dimension_errors_total",
		Help: "Multiplications skipped because of a dimension mismatch",
	})

	graphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matinspect_graph_nodes",
		Help: "Nodes in the graph after the last recompute, orphans included",
	})
)

var (
	tracerOnce sync.Once
	tracer     trace.Tracer
)

// getTracer returns the package tracer, resolved lazily so a provider
// installed after import is still picked up.
func getTracer() trace.Tracer {
	tracerOnce.Do(func() {
		tracer = otel.Tracer("github.com/katalvlaran/matinspect/engine")
	})

	return tracer
}
