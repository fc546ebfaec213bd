// SPDX-License-Identifier: MIT

// Package depgraph: matrix lifecycle and cell access.
//
// Matrices are replaced wholesale; nodes are never removed individually.
// Replaced nodes stay in the node map (orphans) so IDs still referenced by
// other nodes' edges keep resolving. Clear is the only full reset.

package depgraph

import (
	"fmt"
	"sort"
	"strconv"
)

// InitMatrix allocates rows*cols fresh nodes under name, replacing any
// existing grid. Node IDs are minted row-major.
// Returns ErrBadShape if rows <= 0 or cols <= 0.
// Complexity: O(rows*cols).
func (g *Graph) InitMatrix(name string, rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("InitMatrix(%q, %d, %d): %w", name, rows, cols, ErrBadShape)
	}
	grid := make([][]string, rows)
	var i, j int
	for i = 0; i < rows; i++ {
		grid[i] = make([]string, cols)
		for j = 0; j < cols; j++ {
			n := &Node{
				ID:         g.ids.Next(),
				Matrix:     name,
				Row:        i,
				Col:        j,
				ColorIndex: NoColorIndex,
			}
			g.nodes[n.ID] = n
			grid[i][j] = n.ID
		}
	}
	g.matrices[name] = grid

	return nil
}

// HasMatrix reports whether a matrix called name exists.
func (g *Graph) HasMatrix(name string) bool {
	_, ok := g.matrices[name]

	return ok
}

// Dims returns the current shape of name.
func (g *Graph) Dims(name string) (Dims, bool) {
	grid, ok := g.matrices[name]
	if !ok || len(grid) == 0 {
		return Dims{}, false
	}

	return Dims{Rows: len(grid), Cols: len(grid[0])}, true
}

// MatrixNames returns all matrix names sorted lexicographically.
func (g *Graph) MatrixNames() []string {
	names := make([]string, 0, len(g.matrices))
	for name := range g.matrices {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Node returns the node with the given ID, including orphans.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]

	return n, ok
}

// NodeIDs returns the IDs of all nodes, including orphans, sorted.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// NodeCount returns the number of nodes, including orphans.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// ElementAt returns the node at (row, col) of name. The second result is
// false when name is unknown or the indices are outside the current grid.
// Complexity: O(1).
func (g *Graph) ElementAt(name string, row, col int) (*Node, bool) {
	grid, ok := g.matrices[name]
	if !ok {
		return nil, false
	}
	if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
		return nil, false
	}
	n, ok := g.nodes[grid[row][col]]

	return n, ok
}

// ElementOption tunes UpdateElement.
type ElementOption func(n *Node)

// WithIdentity sets the identity flag of the updated node.
func WithIdentity(identity bool) ElementOption {
	return func(n *Node) { n.Identity = identity }
}

// WithColorIndex sets the palette index of the updated node.
func WithColorIndex(idx int) ElementOption {
	return func(n *Node) { n.ColorIndex = idx }
}

// UpdateElement sets value and color of the node at (row, col) in place.
// ID and edges are never touched. Returns false if the cell does not exist.
// Complexity: O(1).
func (g *Graph) UpdateElement(name string, row, col int, value float64, color string, opts ...ElementOption) bool {
	n, ok := g.ElementAt(name, row, col)
	if !ok {
		return false
	}
	n.Value = value
	n.Color = color
	for _, opt := range opts {
		opt(n)
	}

	return true
}

// MatrixData materialises the grid of name as nodes (not IDs).
// Complexity: O(rows*cols).
func (g *Graph) MatrixData(name string) ([][]*Node, bool) {
	grid, ok := g.matrices[name]
	if !ok {
		return nil, false
	}
	out := make([][]*Node, len(grid))
	for i, row := range grid {
		out[i] = make([]*Node, len(row))
		for j, id := range row {
			out[i][j] = g.nodes[id]
		}
	}

	return out, true
}

// MarkDerived flags name as evaluator output.
func (g *Graph) MarkDerived(name string) { g.derived[name] = struct{}{} }

// IsDerived reports whether name was written by the evaluator.
func (g *Graph) IsDerived(name string) bool {
	_, ok := g.derived[name]

	return ok
}

// NextIntermediate mints a fresh intermediate matrix name (_TEMP_1, _TEMP_2, …)
// and records a human-readable description for display.
func (g *Graph) NextIntermediate(description string) string {
	g.intermediateCounter++
	name := intermediatePrefix + strconv.Itoa(g.intermediateCounter)
	g.intermediateDescriptions[name] = description

	return name
}

// IntermediateDescription returns the description recorded by NextIntermediate.
func (g *Graph) IntermediateDescription(name string) (string, bool) {
	d, ok := g.intermediateDescriptions[name]

	return d, ok
}

// Clear discards all nodes, matrices and descriptions and resets the ID
// generator and intermediate counter.
// Complexity: O(1) amortised.
func (g *Graph) Clear() {
	g.nodes = make(map[string]*Node)
	g.matrices = make(map[string][][]string)
	g.derived = make(map[string]struct{})
	g.intermediateDescriptions = make(map[string]string)
	g.intermediateCounter = 0
	g.ids.Reset()
}
