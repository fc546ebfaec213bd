// SPDX-License-Identifier: MIT

// Package csr projects a matrix of a depgraph.Graph into compressed sparse
// row form for renderers. Each stored cell carries a color list: its own
// color followed by the colors of its direct dependencies, which is what a
// renderer needs to draw a cell as a stack of provenance swatches.
//
// Export is a pure read and never mutates the graph.
package csr

import (
	"github.com/katalvlaran/matinspect/depgraph"
)

// Placeholder stands in for a missing color.
const Placeholder = "#000000"

// View is the CSR layout of one matrix plus per-cell color lists.
// Values[k] belongs to the cell at ElementIDs[k].
type View struct {
	Name       string
	Rows, Cols int
	RowOffsets []int
	ColIndices []int
	ElementIDs []string
	Values     [][]string
}

// NNZ returns the number of stored cells.
func (v *View) NNZ() int { return len(v.ElementIDs) }

// Row returns the column indices and element IDs stored in row i.
func (v *View) Row(i int) ([]int, []string) {
	if i < 0 || i+1 >= len(v.RowOffsets) {
		return nil, nil
	}
	lo, hi := v.RowOffsets[i], v.RowOffsets[i+1]

	return v.ColIndices[lo:hi], v.ElementIDs[lo:hi]
}

// Export returns the view of name, or false when name is unknown.
// A cell is stored when its value is nonzero; a colored zero is not.
// Complexity: O(r*c + Σ direct dependencies of stored cells).
func Export(g *depgraph.Graph, name string) (*View, bool) {
	base, ok := g.CSRWithIDs(name)
	if !ok {
		return nil, false
	}
	d, _ := g.Dims(name)
	v := &View{
		Name:       name,
		Rows:       d.Rows,
		Cols:       d.Cols,
		RowOffsets: base.RowOffsets,
		ColIndices: base.ColIndices,
		ElementIDs: base.ElementIDs,
		Values:     make([][]string, len(base.ElementIDs)),
	}
	for k, id := range base.ElementIDs {
		v.Values[k] = colors(g, id)
	}

	return v, true
}

func colors(g *depgraph.Graph, id string) []string {
	n, ok := g.Node(id)
	if !ok {
		return []string{Placeholder}
	}
	deps := n.Dependencies()
	out := make([]string, 0, len(deps)+1)
	if n.Color != "" {
		out = append(out, n.Color)
	}
	for _, dep := range deps {
		c := Placeholder
		if dn, ok := g.Node(dep); ok && dn.Color != "" {
			c = dn.Color
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		out = append(out, Placeholder)
	}

	return out
}
