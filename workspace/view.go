// SPDX-License-Identifier: MIT

package workspace

import (
	"fmt"

	"github.com/katalvlaran/matinspect/csr"
	"github.com/katalvlaran/matinspect/depgraph"
	"github.com/katalvlaran/matinspect/matrix"
)

// Table returns the render-ready grid of name.
func (w *Workspace) Table(name string) ([][]CellView, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	data, ok := w.g.MatrixData(name)
	if !ok {
		return nil, false
	}
	out := make([][]CellView, len(data))
	for i, row := range data {
		out[i] = make([]CellView, len(row))
		for j, n := range row {
			out[i][j] = view(n)
		}
	}

	return out, true
}

// Element returns one cell of name.
func (w *Workspace) Element(name string, row, col int) (CellView, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n, ok := w.g.ElementAt(name, row, col)
	if !ok {
		return CellView{}, false
	}

	return view(n), true
}

func view(n *depgraph.Node) CellView {
	return CellView{
		ID:           n.ID,
		Value:        n.Value,
		Color:        n.Color,
		Identity:     n.Identity,
		Dependencies: n.Dependencies(),
	}
}

// CSR returns the colored sparse view of name.
func (w *Workspace) CSR(name string) (*csr.View, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return csr.Export(w.g, name)
}

// Dense returns the values of name as a matrix.Dense.
func (w *Workspace) Dense(name string) (*matrix.Dense, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	data, ok := w.g.MatrixData(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMatrix, name)
	}
	m, err := matrix.NewDense(len(data), len(data[0]))
	if err != nil {
		return nil, err
	}
	for i, row := range data {
		for j, n := range row {
			if err = m.Set(i, j, n.Value); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// Highlight marks id and every cell it was derived from, and returns that
// set. The highlight is recomputed after every Recompute and dropped when
// id no longer exists.
func (w *Workspace) Highlight(id string) (depgraph.Set, error) {
	return w.setHighlight(highlight{root: id})
}

// HighlightDependents marks id and every cell derived from it.
func (w *Workspace) HighlightDependents(id string) (depgraph.Set, error) {
	return w.setHighlight(highlight{root: id, dependents: true})
}

func (w *Workspace) setHighlight(h highlight) (depgraph.Set, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.g.Node(h.root); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, h.root)
	}
	w.hl = &h
	w.refreshHighlight()

	return copySet(w.highlighted), nil
}

// Highlighted returns the highlighted cell IDs, sorted.
func (w *Workspace) Highlighted() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.highlighted.Slice()
}

// IsHighlighted reports whether id is highlighted.
func (w *Workspace) IsHighlighted(id string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.highlighted.Has(id)
}

// ClearHighlights drops the highlight.
func (w *Workspace) ClearHighlights() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hl = nil
	w.highlighted = nil
}

func (w *Workspace) refreshHighlight() {
	if w.hl == nil {
		return
	}
	if _, ok := w.g.Node(w.hl.root); !ok {
		w.hl = nil
		w.highlighted = nil
		return
	}
	if w.hl.dependents {
		w.highlighted = w.g.AllDependents(w.hl.root)
	} else {
		w.highlighted = w.g.AllDependencies(w.hl.root)
	}
}

func copySet(s depgraph.Set) depgraph.Set {
	out := make(depgraph.Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}

	return out
}
