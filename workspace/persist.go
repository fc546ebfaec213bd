// SPDX-License-Identifier: MIT

package workspace

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/matinspect/depgraph"
	"github.com/katalvlaran/matinspect/document"
	"github.com/katalvlaran/matinspect/engine"
	"github.com/katalvlaran/matinspect/formula"
)

var (
	tracer     trace.Tracer
	tracerOnce sync.Once
)

func getTracer() trace.Tracer {
	tracerOnce.Do(func() {
		tracer = otel.Tracer("github.com/katalvlaran/matinspect/workspace")
	})

	return tracer
}

// Export captures the painted state as a CurrentVersion document.
//
// Every painted matrix is listed, with its nonzero and identity cells in
// row-major order. A shape is recorded in MatrixDimensions when the matrix
// has its own record or differs from the uniform shape.
func (w *Workspace) Export() *document.Document {
	w.mu.RLock()
	defer w.mu.RUnlock()

	uniform := w.uniform()
	d := &document.Document{
		Version:          document.CurrentVersion,
		Timestamp:        w.now().UTC(),
		Formula:          w.formula.Raw,
		Dimensions:       &uniform,
		MatrixDimensions: make(map[string]depgraph.Dims),
		Configuration:    document.Configuration{Symmetric: w.cfg.Symmetric, Mirror: w.cfg.Mirror},
		Iterations:       w.iterations,
		Matrices:         make(map[string][]document.Cell),
	}
	for name, rec := range w.dims {
		d.MatrixDimensions[name] = rec
	}
	for _, name := range painted(w.g) {
		shape, _ := w.g.Dims(name)
		if _, ok := d.MatrixDimensions[name]; !ok && shape != uniform {
			d.MatrixDimensions[name] = shape
		}
		data, _ := w.g.MatrixData(name)
		cells := make([]document.Cell, 0)
		for i, row := range data {
			for j, n := range row {
				if n.Value == 0 && !n.Identity {
					continue
				}
				cells = append(cells, document.Cell{Row: i, Col: j, Value: n.Value, Color: n.Color, Identity: n.Identity})
			}
		}
		d.Matrices[name] = cells
	}
	if len(d.MatrixDimensions) == 0 {
		d.MatrixDimensions = nil
	}

	return d
}

// Import replaces the whole workspace with d and recomputes.
//
// d is migrated and validated, and the new graph is built and evaluated
// off to the side; the live state changes only when all of that succeeds.
// On any error the workspace is exactly as it was. d itself is not
// modified.
func (w *Workspace) Import(ctx context.Context, d *document.Document) (*engine.Result, error) {
	t := w.tracer
	if t == nil {
		t = getTracer()
	}
	ctx, span := t.Start(ctx, "workspace.Import")
	defer span.End()

	res, err := w.importDocument(ctx, d)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "import failed")
		w.log.WarnContext(ctx, "import rejected", slog.Any("error", err))
		return nil, err
	}
	span.SetAttributes(
		attribute.String("formula", d.Formula),
		attribute.Int("matrices", len(d.Matrices)),
		attribute.Int("errors", len(res.Errors)),
	)
	span.SetStatus(codes.Ok, "imported")
	w.log.InfoContext(ctx, "imported",
		slog.String("formula", d.Formula),
		slog.Int("matrices", len(d.Matrices)),
		slog.Int("errors", len(res.Errors)),
	)

	return res, nil
}

func (w *Workspace) importDocument(ctx context.Context, src *document.Document) (*engine.Result, error) {
	d := clone(src)
	if err := document.Migrate(d); err != nil {
		return nil, err
	}
	if err := document.Validate(d); err != nil {
		return nil, err
	}
	f, err := formula.Parse(d.Formula)
	if err != nil {
		return nil, err
	}

	cfg := Config{
		Rows:      d.Dimensions.Rows,
		Cols:      d.Dimensions.Cols,
		Symmetric: d.Configuration.Symmetric,
		Mirror:    d.Configuration.Mirror,
	}
	iterations := d.Iterations
	if iterations == 0 {
		iterations = engine.DefaultIterations
	}
	dims := make(map[string]depgraph.Dims, len(d.MatrixDimensions))
	for name, s := range d.MatrixDimensions {
		dims[name] = s
	}

	staged := depgraph.New()
	names := make([]string, 0, len(d.Matrices))
	for name := range d.Matrices {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		shape := d.Shape(name)
		if err = staged.InitMatrix(name, shape.Rows, shape.Cols); err != nil {
			return nil, err
		}
		for _, c := range d.Matrices[name] {
			staged.UpdateElement(name, c.Row, c.Col, c.Value, c.Color, depgraph.WithIdentity(c.Identity))
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	prev := struct {
		cfg        Config
		dims       map[string]depgraph.Dims
		iterations int
	}{w.cfg, w.dims, w.iterations}
	w.cfg, w.dims, w.iterations = cfg, dims, iterations
	res, err := w.commit(ctx, staged, f, w.engineConfig(f))
	if err != nil {
		w.cfg, w.dims, w.iterations = prev.cfg, prev.dims, prev.iterations
		return nil, err
	}
	w.formula = f
	w.hl = nil
	w.highlighted = nil

	return res, nil
}

// clone copies the parts of d that migration may rewrite.
func clone(d *document.Document) *document.Document {
	if d == nil {
		return nil
	}
	out := *d
	if d.Dimensions != nil {
		dims := *d.Dimensions
		out.Dimensions = &dims
	}
	if d.MatrixDimensions != nil {
		out.MatrixDimensions = make(map[string]depgraph.Dims, len(d.MatrixDimensions))
		for k, v := range d.MatrixDimensions {
			out.MatrixDimensions[k] = v
		}
	}
	if d.Matrices != nil {
		out.Matrices = make(map[string][]document.Cell, len(d.Matrices))
		for k, v := range d.Matrices {
			out.Matrices[k] = v
		}
	}

	return &out
}
