// SPDX-License-Identifier: MIT

// Package engine: recompute configuration and Engine options.

package engine

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/matinspect/depgraph"
)

// Defaults - single source of truth for zero-value Config fields.
const (
	// DefaultOutput is the matrix that receives the final result.
	DefaultOutput = "O"

	// DefaultIterations is the recurrence step count when unset.
	DefaultIterations = 1

	// MaxIterations bounds the recurrence step count.
	MaxIterations = 100

	// DefaultSize is the shape of a referenced matrix with no dimension record.
	DefaultSize = 5
)

// Config parameterises one recompute cycle.
type Config struct {
	// Output receives a copy of the final result. "" means DefaultOutput.
	Output string

	// Iterations is the number of recurrence steps, 1..MaxIterations.
	// 0 means DefaultIterations.
	Iterations int

	// Dimensions holds per-matrix shape records. A listed matrix is
	// (re)built at that shape; painted cells outside it are dropped.
	Dimensions map[string]depgraph.Dims

	// DefaultDims shapes referenced matrices that neither exist nor have a
	// record. Zero means DefaultSize×DefaultSize.
	DefaultDims depgraph.Dims
}

// normalize fills defaults and validates ranges.
func (c Config) normalize() (Config, error) {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.Iterations < 1 || c.Iterations > MaxIterations {
		return c, fmt.Errorf("%w: iterations %d not in 1..%d", ErrInvalidConfig, c.Iterations, MaxIterations)
	}
	if c.DefaultDims == (depgraph.Dims{}) {
		c.DefaultDims = depgraph.Dims{Rows: DefaultSize, Cols: DefaultSize}
	}
	if c.DefaultDims.Rows <= 0 || c.DefaultDims.Cols <= 0 {
		return c, fmt.Errorf("%w: default dims %dx%d", ErrInvalidConfig, c.DefaultDims.Rows, c.DefaultDims.Cols)
	}
	for name, d := range c.Dimensions {
		if d.Rows <= 0 || d.Cols <= 0 {
			return c, fmt.Errorf("%w: %s dims %dx%d", ErrInvalidConfig, name, d.Rows, d.Cols)
		}
	}

	return c, nil
}

// dimsFor returns the recorded shape of name, or fallback.
func (c Config) dimsFor(name string, fallback depgraph.Dims) depgraph.Dims {
	if d, ok := c.Dimensions[name]; ok {
		return d
	}

	return fallback
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithTracer overrides the OpenTelemetry tracer. nil keeps the global one.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}
