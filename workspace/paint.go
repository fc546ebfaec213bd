// SPDX-License-Identifier: MIT

package workspace

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/katalvlaran/matinspect/depgraph"
	"github.com/katalvlaran/matinspect/engine"
	"github.com/katalvlaran/matinspect/matrix"
)

// Paint rules shared by every method in this file:
//   - only painted matrices accept paint (see ErrNotPaintable);
//   - with Mirror on, MirrorTarget is read-only and every write to
//     MirrorSource is repeated on MirrorTarget;
//   - with Symmetric on, a write to (i,j), i != j, of a square matrix is
//     repeated on (j,i);
//   - a zero value never keeps a color.

// paintable returns the shape of name or the reason it cannot be painted.
func (w *Workspace) paintable(name string) (depgraph.Dims, error) {
	d, ok := w.g.Dims(name)
	if !ok {
		return d, fmt.Errorf("%w: %q", ErrUnknownMatrix, name)
	}
	if w.g.IsDerived(name) || engine.IsInstance(name) {
		return d, fmt.Errorf("%w: %q", ErrNotPaintable, name)
	}
	if w.cfg.Mirror && name == MirrorTarget {
		return d, ErrMirrored
	}

	return d, nil
}

func checkCell(d depgraph.Dims, row, col int) error {
	if row < 0 || row >= d.Rows || col < 0 || col >= d.Cols {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfRange, row, col, d.Rows, d.Cols)
	}

	return nil
}

// put writes one cell and its mirror.
func (w *Workspace) put(name string, row, col int, value float64, color string, identity bool) {
	if value == 0 {
		color = ""
	}
	w.g.UpdateElement(name, row, col, value, color, depgraph.WithIdentity(identity))
	if w.cfg.Mirror && name == MirrorSource {
		// MirrorTarget may be smaller or absent; UpdateElement ignores misses.
		w.g.UpdateElement(MirrorTarget, row, col, value, color, depgraph.WithIdentity(identity))
	}
}

// set is put plus the symmetric counterpart.
func (w *Workspace) set(name string, d depgraph.Dims, row, col int, value float64, color string, identity bool) {
	w.put(name, row, col, value, color, identity)
	if w.cfg.Symmetric && d.Rows == d.Cols && row != col {
		w.put(name, col, row, value, color, identity)
	}
}

// Toggle flips a cell between 0 and 1 and returns the new value. A painted
// cell gets color, or DefaultColor when color is empty.
func (w *Workspace) Toggle(name string, row, col int, color string) (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.paintable(name)
	if err != nil {
		return 0, err
	}
	if err = checkCell(d, row, col); err != nil {
		return 0, err
	}
	n, _ := w.g.ElementAt(name, row, col)
	value := 1.0
	if n.Value != 0 {
		value = 0
	}
	if color == "" {
		color = DefaultColor
	}
	w.set(name, d, row, col, value, color, n.Identity)

	return value, nil
}

// Paint stores value and color at (row, col), keeping the identity flag.
func (w *Workspace) Paint(name string, row, col int, value float64, color string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.paintable(name)
	if err != nil {
		return err
	}
	if err = checkCell(d, row, col); err != nil {
		return err
	}
	n, _ := w.g.ElementAt(name, row, col)
	w.set(name, d, row, col, value, color, n.Identity)

	return nil
}

// SetIdentity marks or unmarks a cell as a multiplicative identity, keeping
// its value and color. Identity cells are transparent to provenance.
func (w *Workspace) SetIdentity(name string, row, col int, identity bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.paintable(name)
	if err != nil {
		return err
	}
	if err = checkCell(d, row, col); err != nil {
		return err
	}
	n, _ := w.g.ElementAt(name, row, col)
	w.set(name, d, row, col, n.Value, n.Color, identity)

	return nil
}

// FillDiagonal sets the main diagonal to 1 with color (DefaultColor when
// empty). Other cells are untouched.
func (w *Workspace) FillDiagonal(name, color string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.paintable(name)
	if err != nil {
		return err
	}
	if color == "" {
		color = DefaultColor
	}
	for i := 0; i < min(d.Rows, d.Cols); i++ {
		w.put(name, i, i, 1, color, false)
	}

	return nil
}

// FillIdentity clears name and marks its main diagonal as uncolored
// identity cells of value 1.
func (w *Workspace) FillIdentity(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.paintable(name)
	if err != nil {
		return err
	}
	w.clear(name, d)
	for i := 0; i < min(d.Rows, d.Cols); i++ {
		w.put(name, i, i, 1, "", true)
	}

	return nil
}

// GenerateRandom replaces name with a random 0/1 pattern: each cell is set
// with probability sparsity. A symmetric pattern decides the upper triangle
// and copies it across the diagonal. An empty color picks one preset color
// for the whole pattern. rng nil uses a time-seeded source.
func (w *Workspace) GenerateRandom(name string, sparsity float64, symmetric bool, color string, rng *rand.Rand) error {
	if sparsity < 0 || sparsity > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSparsity, sparsity)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.paintable(name)
	if err != nil {
		return err
	}
	if color == "" {
		color = PresetColors[rng.Intn(len(PresetColors))]
	}

	w.clear(name, d)
	for i := 0; i < d.Rows; i++ {
		for j := 0; j < d.Cols; j++ {
			if symmetric && j < i {
				continue
			}
			if rng.Float64() >= sparsity {
				continue
			}
			w.put(name, i, j, 1, color, false)
			if symmetric && i != j {
				w.put(name, j, i, 1, color, false)
			}
		}
	}

	return nil
}

// ClearMatrix zeroes every cell of name.
func (w *Workspace) ClearMatrix(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.paintable(name)
	if err != nil {
		return err
	}
	w.clear(name, d)

	return nil
}

func (w *Workspace) clear(name string, d depgraph.Dims) {
	for i := 0; i < d.Rows; i++ {
		for j := 0; j < d.Cols; j++ {
			w.put(name, i, j, 0, "", false)
		}
	}
}

// SyncMirror copies MirrorSource into the overlapping cells of MirrorTarget.
func (w *Workspace) SyncMirror() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.syncMirror()
}

func (w *Workspace) syncMirror() error {
	src, ok := w.g.MatrixData(MirrorSource)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMatrix, MirrorSource)
	}
	if !w.g.HasMatrix(MirrorTarget) {
		return fmt.Errorf("%w: %q", ErrUnknownMatrix, MirrorTarget)
	}
	for i, row := range src {
		for j, n := range row {
			w.g.UpdateElement(MirrorTarget, i, j, n.Value, n.Color, depgraph.WithIdentity(n.Identity))
		}
	}

	return nil
}

// LoadDense paints name from m. Shapes must match. Nonzero cells get
// color, zero cells are cleared. Identity flags are reset.
func (w *Workspace) LoadDense(name string, m *matrix.Dense, color string) error {
	if m == nil {
		return matrix.ErrNilMatrix
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.paintable(name)
	if err != nil {
		return err
	}
	if r, c := m.Shape(); r != d.Rows || c != d.Cols {
		return fmt.Errorf("%w: %s is %dx%d, got %dx%d", ErrInvalidDimensions, name, d.Rows, d.Cols, r, c)
	}
	m.Do(func(i, j int, v float64) bool {
		w.put(name, i, j, v, color, false)
		return true
	})

	return nil
}
