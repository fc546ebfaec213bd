// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/matinspect/depgraph"
	"github.com/katalvlaran/matinspect/formula"
)

// Engine runs recompute cycles. It holds no graph state and may be shared.
type Engine struct {
	log    *slog.Logger
	tracer trace.Tracer
}

// New returns an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{log: slog.Default().With(slog.String("component", "engine"))}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Result reports what a recompute cycle produced.
type Result struct {
	Mode formula.Mode

	// Output is the matrix holding the final result, "" when nothing was
	// computed or the final product failed.
	Output string

	// Produced lists the numbered matrices written by an iterative cycle,
	// in write order (K_0, K_1, ...).
	Produced []string

	// Errors holds the collected dimension and lookup errors.
	Errors []error
}

// Err joins Errors, or returns nil.
func (r *Result) Err() error {
	if r == nil {
		return nil
	}

	return errors.Join(r.Errors...)
}

// cellState is the painted state of one cell.
type cellState struct {
	value      float64
	color      string
	identity   bool
	colorIndex int
}

type snapshot struct {
	dims  depgraph.Dims
	cells [][]cellState
}

// Recompute rebuilds every computed matrix of g from the painted base
// matrices and f.
//
// The cycle snapshots every painted matrix (anything not derived and not an
// instance), clears g, rebuilds the painted matrices in name order so IDs
// come out the same on every run, restores the paint and evaluates f. A
// simple formula's result is copied into cfg.Output. An iterative formula
// writes each base case and each recurrence step into its numbered target
// and copies the last one into cfg.Output.
//
// Dimension and lookup errors are collected in Result.Errors; the returned
// error is reserved for invalid arguments and cancellation.
func (e *Engine) Recompute(ctx context.Context, g *depgraph.Graph, f *formula.Formula, cfg Config) (*Result, error) {
	if g == nil || f == nil {
		recomputeTotal.WithLabelValues("unknown", "invalid").Inc()
		return nil, fmt.Errorf("%w: nil graph or formula", ErrInvalidConfig)
	}
	cfg, err := cfg.normalize()
	if err != nil {
		recomputeTotal.WithLabelValues(f.Mode.String(), "invalid").Inc()
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		recomputeTotal.WithLabelValues(f.Mode.String(), "canceled").Inc()
		return nil, err
	}

	t := e.tracer
	if t == nil {
		t = getTracer()
	}
	ctx, span := t.Start(ctx, "engine.Recompute",
		trace.WithAttributes(
			attribute.String("mode", f.Mode.String()),
			attribute.String("formula", f.Raw),
			attribute.Int("iterations", cfg.Iterations),
		),
	)
	defer span.End()
	start := time.Now()

	inputs := formula.BaseMatrices(f)
	e.rebuild(g, inputs, cfg)

	res := &Result{Mode: f.Mode}
	if f.Mode == formula.Iterative {
		err = e.iterate(ctx, g, f, cfg, res)
	} else {
		e.simple(g, f, cfg, res)
	}

	recomputeDuration.Observe(time.Since(start).Seconds())
	graphNodes.Set(float64(g.NodeCount()))
	for _, re := range res.Errors {
		if errors.Is(re, ErrDimensionMismatch) {
			dimensionErrors.Inc()
		}
	}
	span.SetAttributes(
		attribute.String("output", res.Output),
		attribute.Int("errors", len(res.Errors)),
		attribute.Int("nodes", g.NodeCount()),
	)

	switch {
	case err != nil:
		recomputeTotal.WithLabelValues(f.Mode.String(), "canceled").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "recompute canceled")
		e.log.WarnContext(ctx, "recompute canceled", slog.String("formula", f.Raw), slog.Any("error", err))
		return res, err
	case len(res.Errors) > 0:
		recomputeTotal.WithLabelValues(f.Mode.String(), "dimension_error").Inc()
		span.RecordError(res.Err())
		span.SetStatus(codes.Error, "recompute errors")
		e.log.WarnContext(ctx, "recompute finished with errors",
			slog.String("formula", f.Raw),
			slog.Int("errors", len(res.Errors)),
			slog.Any("first", res.Errors[0]),
		)
	default:
		recomputeTotal.WithLabelValues(f.Mode.String(), "ok").Inc()
		span.SetStatus(codes.Ok, "recomputed")
		if e.log.Enabled(ctx, slog.LevelDebug) {
			e.log.DebugContext(ctx, "recomputed",
				slog.String("formula", f.Raw),
				slog.String("output", res.Output),
				slog.Int("nodes", g.NodeCount()),
				slog.Duration("took", time.Since(start)),
			)
		}
	}

	return res, nil
}

// rebuild clears g and recreates the painted matrices plus any missing
// inputs, then restores the paint.
func (e *Engine) rebuild(g *depgraph.Graph, inputs []string, cfg Config) {
	snaps := make(map[string]snapshot)
	for _, name := range g.MatrixNames() {
		if g.IsDerived(name) || IsInstance(name) {
			continue
		}
		snaps[name] = take(g, name)
	}

	shapes := make(map[string]depgraph.Dims, len(snaps)+len(inputs))
	for name, s := range snaps {
		shapes[name] = cfg.dimsFor(name, s.dims)
	}
	for _, name := range inputs {
		if _, ok := shapes[name]; !ok {
			shapes[name] = cfg.dimsFor(name, cfg.DefaultDims)
		}
	}
	names := make([]string, 0, len(shapes))
	for name := range shapes {
		names = append(names, name)
	}
	sort.Strings(names)

	g.Clear()
	for _, name := range names {
		d := shapes[name]
		if err := g.InitMatrix(name, d.Rows, d.Cols); err != nil {
			// shapes were validated by normalize or read back from the graph
			e.log.Error("rebuild matrix", slog.String("matrix", name), slog.Any("error", err))
			continue
		}
		if s, ok := snaps[name]; ok {
			restore(g, name, s)
		}
	}
}

func take(g *depgraph.Graph, name string) snapshot {
	data, _ := g.MatrixData(name)
	d, _ := g.Dims(name)
	s := snapshot{dims: d, cells: make([][]cellState, len(data))}
	for i, row := range data {
		s.cells[i] = make([]cellState, len(row))
		for j, n := range row {
			s.cells[i][j] = cellState{value: n.Value, color: n.Color, identity: n.Identity, colorIndex: n.ColorIndex}
		}
	}

	return s
}

// restore writes the overlap of s into name.
func restore(g *depgraph.Graph, name string, s snapshot) {
	for i, row := range s.cells {
		for j, c := range row {
			g.UpdateElement(name, i, j, c.value, c.color,
				depgraph.WithIdentity(c.identity), depgraph.WithColorIndex(c.colorIndex))
		}
	}
}

func (e *Engine) simple(g *depgraph.Graph, f *formula.Formula, cfg Config, res *Result) {
	if f.Expr == nil {
		return
	}
	ev := NewEvaluator(g)
	name, err := ev.Evaluate(f.Expr)
	res.Errors = ev.Errors()
	if err != nil {
		return
	}
	if err = CopyInto(g, name, cfg.Output); err != nil {
		res.Errors = append(res.Errors, err)
		return
	}
	res.Output = cfg.Output
}

// iterate runs the base cases and then cfg.Iterations recurrence steps.
// All statements share one Evaluator so instance names never repeat.
func (e *Engine) iterate(ctx context.Context, g *depgraph.Graph, f *formula.Formula, cfg Config, res *Result) error {
	ev := NewEvaluator(g)
	defer func() { res.Errors = ev.Errors() }()

	var last string
	for _, bc := range f.BaseCases {
		expr := formula.Resolve(bc.Expr, func(r *formula.MatrixRef) *formula.MatrixRef {
			return bindIndex(g, r, 0)
		})
		name, err := ev.Evaluate(expr)
		if err != nil {
			continue
		}
		target := bc.Target.Name()
		if err = CopyInto(g, name, target); err != nil {
			ev.errs = append(ev.errs, err)
			continue
		}
		res.Produced = append(res.Produced, target)
		last = target
	}

	if rec := f.Recurrence; rec != nil {
		base := rec.Target.BaseName
		step := highestIndex(g, base)
		if step < 0 {
			step = 0
		}
		for i := 0; i < cfg.Iterations; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			n := step
			expr := formula.Resolve(rec.Expr, func(r *formula.MatrixRef) *formula.MatrixRef {
				return bindIndex(g, r, n)
			})
			name, err := ev.Evaluate(expr)
			if err != nil {
				// later steps would read the missing result
				break
			}
			target := base + "_" + strconv.Itoa(step+1)
			if err = CopyInto(g, name, target); err != nil {
				ev.errs = append(ev.errs, err)
				break
			}
			res.Produced = append(res.Produced, target)
			last = target
			step++
		}
	}

	if last == "" {
		return nil
	}
	if err := CopyInto(g, last, cfg.Output); err != nil {
		ev.errs = append(ev.errs, err)
		return nil
	}
	res.Output = cfg.Output

	return nil
}

// bindIndex resolves a symbolic subscript against the running index n:
// "n" is n and "n+1" is n+1. An index past the highest existing numbered
// matrix is clamped to it; with no numbered matrix at all the bare name is
// used. Other subscripts are returned unchanged.
func bindIndex(g *depgraph.Graph, r *formula.MatrixRef, n int) *formula.MatrixRef {
	if r.Subscript.Kind != formula.SubscriptSymbolic {
		return r
	}
	var idx int
	switch r.Subscript.Symbol {
	case formula.SymbolCurrent:
		idx = n
	case formula.SymbolNext:
		idx = n + 1
	default:
		return r
	}
	if !g.HasMatrix(r.BaseName + "_" + strconv.Itoa(idx)) {
		top := highestIndex(g, r.BaseName)
		if top < 0 {
			r.Subscript = formula.Subscript{}
			return r
		}
		if idx > top {
			idx = top
		}
	}
	r.Subscript = formula.Subscript{Kind: formula.SubscriptNumber, Number: idx}

	return r
}

// highestIndex returns the largest k such that base_k exists, or -1.
func highestIndex(g *depgraph.Graph, base string) int {
	top := -1
	prefix := base + "_"
	for _, name := range g.MatrixNames() {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		k, err := strconv.Atoi(rest)
		if err != nil || k < 0 {
			continue
		}
		if k > top {
			top = k
		}
	}

	return top
}
