// SPDX-License-Identifier: MIT

// Package depgraph: edge maintenance and CSR projection.

package depgraph

// AddDependency records that target depends on source, updating both
// adjacency lists without duplicating entries. It is a no-op
// returning false if either ID is unknown. Self-loops are accepted by the
// structure; the evaluator never produces them.
// Complexity: O(1).
func (g *Graph) AddDependency(targetID, sourceID string) bool {
	target, ok := g.nodes[targetID]
	if !ok {
		return false
	}
	source, ok := g.nodes[sourceID]
	if !ok {
		return false
	}
	target.dependencies.add(sourceID)
	source.dependents.add(targetID)

	return true
}

// DirectDependencies returns the direct dependency IDs of id, or nil.
func (g *Graph) DirectDependencies(id string) []string {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}

	return n.Dependencies()
}

// ClearMatrixDependencies removes every incoming edge of the nodes currently
// placed in name: each node is dropped from its sources' dependents, then
// its own dependency list is emptied. Recomputation calls this first so
// edges never accumulate across cycles.
// Complexity: O(r*c + E_in).
func (g *Graph) ClearMatrixDependencies(name string) {
	grid, ok := g.matrices[name]
	if !ok {
		return
	}
	for _, row := range grid {
		for _, id := range row {
			n := g.nodes[id]
			if n == nil {
				continue
			}
			for _, srcID := range n.dependencies.items {
				if src, ok := g.nodes[srcID]; ok {
					src.dependents.remove(n.ID)
				}
			}
			n.dependencies.reset()
		}
	}
}

// CSRWithIDs returns the CSR layout of name, where a cell counts as nonzero
// when its value is not zero (color alone does not count).
// Complexity: O(r*c).
func (g *Graph) CSRWithIDs(name string) (*CSR, bool) {
	grid, ok := g.matrices[name]
	if !ok {
		return nil, false
	}
	out := &CSR{RowOffsets: make([]int, 1, len(grid)+1)}
	count := 0
	for _, row := range grid {
		for j, id := range row {
			n := g.nodes[id]
			if n != nil && n.Value != 0 {
				out.ColIndices = append(out.ColIndices, j)
				out.ElementIDs = append(out.ElementIDs, id)
				count++
			}
		}
		out.RowOffsets = append(out.RowOffsets, count)
	}

	return out, true
}
