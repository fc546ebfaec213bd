// SPDX-License-Identifier: MIT

// Package workspace - configuration, options, sentinel errors and views.

package workspace

import (
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/matinspect/engine"
)

// Defaults mirror the original application's initial state.
const (
	// DefaultFormula is the formula a new Workspace evaluates.
	DefaultFormula = "S*K*S"

	// DefaultColor is the paint color used when none is given.
	DefaultColor = "#46f0f0"

	// MirrorSource and MirrorTarget are the matrices linked by mirror mode.
	MirrorSource = "S_left"
	MirrorTarget = "S_right"

	// MinSize and MaxSize bound every matrix dimension.
	MinSize = 1
	MaxSize = 50
)

// PresetColors is the palette random fills and diagonal fills draw from.
var PresetColors = []string{
	"#E07A5F", // terracotta
	"#81B29A", // sage green
	"#F2CC8F", // soft gold
	"#3D5A80", // slate blue
	"#9D84B7", // soft purple
	"#E8A0BF", // dusty rose
	"#6DB1BF", // ocean blue
	"#A8C5DA", // powder blue
	"#F4D58D", // mellow yellow
	"#5A9D8C", // sea green
	"#D4789C", // mauve
	"#8B6F9E", // amethyst
}

// Sentinel errors for workspace operations.
var (
	// ErrUnknownMatrix indicates a matrix name not present in the workspace.
	ErrUnknownMatrix = errors.New("workspace: unknown matrix")

	// ErrNotPaintable indicates a computed matrix (product, transpose,
	// instance or output) was targeted by a paint operation.
	ErrNotPaintable = errors.New("workspace: matrix is computed")

	// ErrMirrored indicates a paint on MirrorTarget while mirror mode is on.
	ErrMirrored = errors.New("workspace: matrix mirrors " + MirrorSource)

	// ErrOutOfRange indicates a cell outside its matrix.
	ErrOutOfRange = errors.New("workspace: cell out of range")

	// ErrInvalidDimensions indicates a shape outside MinSize..MaxSize, or a
	// dense matrix whose shape differs from its target.
	ErrInvalidDimensions = errors.New("workspace: invalid dimensions")

	// ErrInvalidSparsity indicates a random fill density outside [0,1].
	ErrInvalidSparsity = errors.New("workspace: sparsity must be in [0,1]")

	// ErrUnknownNode indicates a highlight request for a missing cell ID.
	ErrUnknownNode = errors.New("workspace: unknown element")
)

// Config holds the paint modes and the uniform base-matrix shape.
type Config struct {
	// Rows and Cols shape every base matrix without its own dimension record.
	Rows, Cols int

	// Symmetric paints (j,i) together with (i,j) on square matrices.
	Symmetric bool

	// Mirror keeps MirrorTarget equal to MirrorSource. MirrorTarget cannot
	// be painted directly while it is on.
	Mirror bool
}

// DefaultConfig returns a 5×5, mirrored, non-symmetric configuration.
func DefaultConfig() Config {
	return Config{Rows: engine.DefaultSize, Cols: engine.DefaultSize, Mirror: true}
}

func (c Config) validate() error {
	if !inRange(c.Rows, c.Cols) {
		return dimsError(c.Rows, c.Cols)
	}

	return nil
}

// CellView is the render-ready state of one cell.
type CellView struct {
	ID           string
	Value        float64
	Color        string
	Identity     bool
	Dependencies []string
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithConfig sets the initial configuration. Invalid configurations are
// ignored in favour of DefaultConfig.
func WithConfig(c Config) Option {
	return func(w *Workspace) {
		if c.validate() == nil {
			w.cfg = c
		}
	}
}

// WithFormula sets the initial formula. A formula that does not parse is
// ignored.
func WithFormula(s string) Option {
	return func(w *Workspace) {
		w.initial = s
	}
}

// WithEngine sets the recompute engine.
func WithEngine(e *engine.Engine) Option {
	return func(w *Workspace) {
		if e != nil {
			w.eng = e
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.log = l
		}
	}
}

// WithTracer overrides the OpenTelemetry tracer used for imports.
func WithTracer(t trace.Tracer) Option {
	return func(w *Workspace) {
		if t != nil {
			w.tracer = t
		}
	}
}

// WithClock sets the time source for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) {
		if now != nil {
			w.now = now
		}
	}
}
