// SPDX-License-Identifier: MIT

// Package depgraph: domain types, options and sentinel errors.
// This file declares Node, Graph, IDGenerator, Set, GraphOption and the
// New constructor. Method implementations live in methods.go,
// methods_edges.go and closure.go.
package depgraph

import (
	"errors"
	"sort"
	"strconv"
)

// Sentinel errors for graph operations.
var (
	// ErrBadShape indicates a matrix was requested with a non-positive dimension.
	ErrBadShape = errors.New("depgraph: matrix dimensions must be > 0")
)

const (
	idPrefix           = "elem_"
	intermediatePrefix = "_TEMP_"

	// NoColorIndex marks a node without a palette index.
	NoColorIndex = -1
)

// IDGenerator mints process-unique node IDs ("elem_0", "elem_1", …).
// A Graph owns exactly one generator; Clear resets it. Share one generator
// between graphs only when their IDs must never collide.
type IDGenerator struct {
	next uint64
}

// NewIDGenerator returns a generator starting at elem_0.
func NewIDGenerator() *IDGenerator { return &IDGenerator{} }

// Next returns a fresh ID.
func (gen *IDGenerator) Next() string {
	id := idPrefix + strconv.FormatUint(gen.next, 10)
	gen.next++

	return id
}

// Reset rewinds the generator to elem_0.
func (gen *IDGenerator) Reset() { gen.next = 0 }

// orderedSet is an insertion-ordered set of node IDs without duplicates.
type orderedSet struct {
	items []string
	index map[string]struct{}
}

func (s *orderedSet) add(id string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.items = append(s.items, id)

	return true
}

func (s *orderedSet) has(id string) bool {
	_, ok := s.index[id]

	return ok
}

func (s *orderedSet) remove(id string) {
	if !s.has(id) {
		return
	}
	delete(s.index, id)
	for i, v := range s.items {
		if v == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
}

func (s *orderedSet) reset() {
	s.items = nil
	s.index = nil
}

func (s *orderedSet) len() int { return len(s.items) }

func (s *orderedSet) slice() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)

	return out
}

// Node is one matrix cell.
//
// ID, Matrix, Row and Col are fixed at creation. Value, Color, ColorIndex and
// Identity are mutated only through Graph.UpdateElement or by the evaluator.
// Edges are mutated only through Graph methods so both sides stay in sync.
type Node struct {
	ID     string
	Matrix string
	Row    int
	Col    int

	Value float64
	// Color is an opaque provenance/display tag; "" means no color.
	Color string
	// ColorIndex is an optional palette index (NoColorIndex when unset).
	ColorIndex int
	// Identity marks a cell that acts as a multiplicative identity and is
	// transparent to dependency propagation.
	Identity bool

	dependencies orderedSet // IDs this cell was derived from
	dependents   orderedSet // IDs derived from this cell
}

// Dependencies returns a copy of the direct dependency IDs in insertion order.
func (n *Node) Dependencies() []string { return n.dependencies.slice() }

// Dependents returns a copy of the direct dependent IDs in insertion order.
func (n *Node) Dependents() []string { return n.dependents.slice() }

// DependsOn reports whether id is a direct dependency of n.
func (n *Node) DependsOn(id string) bool { return n.dependencies.has(id) }

// DependencyCount returns the number of direct dependencies.
func (n *Node) DependencyCount() int { return n.dependencies.len() }

// Set is an unordered collection of node IDs returned by closure queries.
type Set map[string]struct{}

// Has reports membership.
func (s Set) Has(id string) bool {
	_, ok := s[id]

	return ok
}

// Slice returns the IDs sorted lexicographically.
func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)

	return out
}

// Dims is a matrix shape.
type Dims struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// CSR is the compressed-sparse-row layout of a matrix's nonzero cells.
// len(RowOffsets) == rows+1, RowOffsets[0] == 0 and
// RowOffsets[rows] == len(ColIndices) == len(ElementIDs).
type CSR struct {
	RowOffsets []int
	ColIndices []int
	ElementIDs []string
}

// GraphOption configures a Graph at construction time.
type GraphOption func(g *Graph)

// WithIDGenerator makes the graph mint IDs from gen instead of its own generator.
func WithIDGenerator(gen *IDGenerator) GraphOption {
	return func(g *Graph) {
		if gen != nil {
			g.ids = gen
		}
	}
}

// Graph owns all nodes and named matrices.
type Graph struct {
	ids *IDGenerator

	nodes    map[string]*Node      // node ID → Node
	matrices map[string][][]string // matrix name → grid of node IDs

	// derived holds matrices written by the evaluator rather than painted
	// by the user. Cells of derived matrices are transparent in products.
	derived map[string]struct{}

	intermediateCounter      int
	intermediateDescriptions map[string]string
}

// New creates an empty Graph.
// Complexity: O(1).
func New(opts ...GraphOption) *Graph {
	g := &Graph{
		ids:                      NewIDGenerator(),
		nodes:                    make(map[string]*Node),
		matrices:                 make(map[string][][]string),
		derived:                  make(map[string]struct{}),
		intermediateDescriptions: make(map[string]string),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}
