// SPDX-License-Identifier: MIT

package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/matinspect/depgraph"
	"github.com/katalvlaran/matinspect/engine"
	"github.com/katalvlaran/matinspect/formula"
)

// Workspace is one editing session: a dependency graph, the formula that
// derives its computed matrices and the paint configuration.
//
// All methods are safe for concurrent use. Mutating methods hold an
// exclusive lock for their whole duration, so a recompute cycle is never
// observed half done. Edits take effect in the graph immediately, but
// computed matrices change only when Recompute (or Import) runs.
type Workspace struct {
	mu sync.RWMutex

	g      *depgraph.Graph
	eng    *engine.Engine
	log    *slog.Logger
	tracer trace.Tracer
	now    func() time.Time

	cfg        Config
	initial    string
	formula    *formula.Formula
	dims       map[string]depgraph.Dims // per-matrix shape records
	iterations int
	output     string

	hl          *highlight
	highlighted depgraph.Set
	last        *engine.Result
}

// highlight remembers what was highlighted so it survives a recompute.
type highlight struct {
	root       string
	dependents bool
}

// New returns a Workspace whose base matrices exist at their configured
// shapes and whose output has been computed once.
func New(opts ...Option) *Workspace {
	w := &Workspace{
		g:          depgraph.New(),
		eng:        engine.New(),
		log:        slog.Default().With(slog.String("component", "workspace")),
		now:        time.Now,
		cfg:        DefaultConfig(),
		initial:    DefaultFormula,
		dims:       make(map[string]depgraph.Dims),
		iterations: engine.DefaultIterations,
		output:     engine.DefaultOutput,
	}
	for _, opt := range opts {
		opt(w)
	}

	f, err := formula.Parse(w.initial)
	if err != nil {
		w.log.Warn("initial formula rejected", slog.String("formula", w.initial), slog.Any("error", err))
		f, _ = formula.Parse(DefaultFormula)
	}
	w.formula = f
	if _, err = w.recompute(context.Background()); err != nil {
		w.log.Error("initial recompute", slog.Any("error", err))
	}

	return w
}

// Config returns the current configuration.
func (w *Workspace) Config() Config {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.cfg
}

// SetDimensions changes the uniform base-matrix shape. Matrices with their
// own record keep it. The new shape applies at the next Recompute.
func (w *Workspace) SetDimensions(rows, cols int) error {
	if !inRange(rows, cols) {
		return dimsError(rows, cols)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cfg.Rows, w.cfg.Cols = rows, cols

	return nil
}

// SetSymmetric toggles symmetric painting.
func (w *Workspace) SetSymmetric(on bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cfg.Symmetric = on
}

// SetMirror toggles mirror mode. Turning it on copies MirrorSource into
// MirrorTarget right away.
func (w *Workspace) SetMirror(on bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cfg.Mirror = on
	if on {
		_ = w.syncMirror() // either matrix may be absent from the formula
	}
}

// Formula returns the raw formula text.
func (w *Workspace) Formula() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.formula.Raw
}

// SetFormula parses s and makes it the workspace formula. On a parse error
// the previous formula and all matrices stay as they were.
func (w *Workspace) SetFormula(s string) error {
	f, err := formula.Parse(s)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.formula = f
	if w.log.Enabled(context.Background(), slog.LevelDebug) {
		w.log.Debug("formula set", slog.String("formula", s), slog.String("mode", f.Mode.String()))
	}

	return nil
}

// References lists the matrix occurrences of the current formula.
func (w *Workspace) References() []formula.Reference {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return formula.References(w.formula)
}

// BaseMatrices lists the paintable inputs of the current formula.
func (w *Workspace) BaseMatrices() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return formula.BaseMatrices(w.formula)
}

// SetMatrixDimensions records a shape for one matrix, overriding the
// uniform shape. Cells outside the new shape are dropped at the next
// Recompute.
func (w *Workspace) SetMatrixDimensions(name string, rows, cols int) error {
	if name == "" || engine.IsInstance(name) {
		return fmt.Errorf("%w: %q", ErrNotPaintable, name)
	}
	if !inRange(rows, cols) {
		return dimsError(rows, cols)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dims[name] = depgraph.Dims{Rows: rows, Cols: cols}

	return nil
}

// MatrixDimensions returns the shape name will have after the next
// Recompute: its record, else its current shape, else the uniform shape
// when the formula needs it.
func (w *Workspace) MatrixDimensions(name string) (depgraph.Dims, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.shapeOf(name)
}

func (w *Workspace) shapeOf(name string) (depgraph.Dims, bool) {
	if d, ok := w.dims[name]; ok {
		return d, true
	}
	if d, ok := w.g.Dims(name); ok {
		return d, true
	}
	for _, base := range formula.BaseMatrices(w.formula) {
		if base == name {
			return w.uniform(), true
		}
	}

	return depgraph.Dims{}, false
}

// Iterations returns the recurrence step count.
func (w *Workspace) Iterations() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.iterations
}

// SetIterations sets the recurrence step count, 1..engine.MaxIterations.
func (w *Workspace) SetIterations(n int) error {
	if n < 1 || n > engine.MaxIterations {
		return fmt.Errorf("%w: iterations %d not in 1..%d", engine.ErrInvalidConfig, n, engine.MaxIterations)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.iterations = n

	return nil
}

// Output returns the name of the matrix receiving the final result.
func (w *Workspace) Output() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.output
}

// Recompute rebuilds every computed matrix from the painted ones.
//
// The cycle runs on a staged copy of the painted state and replaces the
// live graph only when it completes, so a canceled context leaves the
// workspace exactly as it was. Dimension errors are not failures: they are
// reported in the Result and the affected products are left out.
func (w *Workspace) Recompute(ctx context.Context) (*engine.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.recompute(ctx)
}

// LastResult returns the Result of the most recent completed recompute.
func (w *Workspace) LastResult() *engine.Result {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.last
}

func (w *Workspace) recompute(ctx context.Context) (*engine.Result, error) {
	staged := depgraph.New()
	copyPaint(staged, w.g)

	return w.commit(ctx, staged, w.formula, w.engineConfig(w.formula))
}

// commit evaluates f on staged and, on success, makes staged the live graph.
func (w *Workspace) commit(ctx context.Context, staged *depgraph.Graph, f *formula.Formula, cfg engine.Config) (*engine.Result, error) {
	res, err := w.eng.Recompute(ctx, staged, f, cfg)
	if err != nil {
		return nil, err
	}
	w.g = staged
	w.last = res
	w.refreshHighlight()

	return res, nil
}

// engineConfig gives every base matrix of f an explicit shape so a change
// of the uniform shape resizes them.
func (w *Workspace) engineConfig(f *formula.Formula) engine.Config {
	uniform := w.uniform()
	dims := make(map[string]depgraph.Dims, len(w.dims))
	for _, name := range formula.BaseMatrices(f) {
		dims[name] = uniform
	}
	for name, d := range w.dims {
		dims[name] = d
	}

	return engine.Config{
		Output:      w.output,
		Iterations:  w.iterations,
		Dimensions:  dims,
		DefaultDims: uniform,
	}
}

func (w *Workspace) uniform() depgraph.Dims {
	return depgraph.Dims{Rows: w.cfg.Rows, Cols: w.cfg.Cols}
}

// CheckDimensions reports every product of a simple formula whose operand
// shapes do not chain, using the shapes the next Recompute would use.
// Iterative formulas depend on computed shapes and are checked by
// Recompute itself.
func (w *Workspace) CheckDimensions() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.formula.Mode != formula.Simple || w.formula.Expr == nil {
		return nil
	}
	var errs []error
	w.checkShape(w.formula.Expr, &errs)

	return errors.Join(errs...)
}

// checkShape returns the shape of e, appending a *engine.DimensionError for
// every product that cannot be formed.
func (w *Workspace) checkShape(e formula.Expr, errs *[]error) (depgraph.Dims, bool) {
	switch n := e.(type) {
	case *formula.MatrixRef:
		d, ok := w.shapeOf(n.Name())
		if !ok {
			d = w.uniform()
		}
		if n.Transpose {
			d.Rows, d.Cols = d.Cols, d.Rows
		}
		return d, true
	case *formula.Multiply:
		l, lok := w.checkShape(n.Left, errs)
		r, rok := w.checkShape(n.Right, errs)
		if !lok || !rok {
			return depgraph.Dims{}, false
		}
		if l.Cols != r.Rows {
			*errs = append(*errs, &engine.DimensionError{
				Left:        formula.String(n.Left),
				Right:       formula.String(n.Right),
				LeftDims:    l,
				RightDims:   r,
				Description: formula.String(n),
			})
			return depgraph.Dims{}, false
		}
		return depgraph.Dims{Rows: l.Rows, Cols: r.Cols}, true
	}

	return depgraph.Dims{}, false
}

// MatrixNames lists every matrix in the graph, computed ones included.
func (w *Workspace) MatrixNames() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.g.MatrixNames()
}

// PaintedMatrices lists the matrices a user paints, sorted.
func (w *Workspace) PaintedMatrices() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return painted(w.g)
}

func painted(g *depgraph.Graph) []string {
	var out []string
	for _, name := range g.MatrixNames() {
		if g.IsDerived(name) || engine.IsInstance(name) {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// copyPaint recreates every painted matrix of src in dst, cell state included.
func copyPaint(dst, src *depgraph.Graph) {
	for _, name := range painted(src) {
		d, _ := src.Dims(name)
		if err := dst.InitMatrix(name, d.Rows, d.Cols); err != nil {
			continue
		}
		data, _ := src.MatrixData(name)
		for i, row := range data {
			for j, n := range row {
				dst.UpdateElement(name, i, j, n.Value, n.Color,
					depgraph.WithIdentity(n.Identity), depgraph.WithColorIndex(n.ColorIndex))
			}
		}
	}
}

func inRange(rows, cols int) bool {
	return rows >= MinSize && rows <= MaxSize && cols >= MinSize && cols <= MaxSize
}

func dimsError(rows, cols int) error {
	return fmt.Errorf("%w: %dx%d not in %d..%d", ErrInvalidDimensions, rows, cols, MinSize, MaxSize)
}
