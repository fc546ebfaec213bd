// Package depgraph provides the dependency graph behind matinspect: every
// matrix cell is a uniquely identified Node, and every Node records which
// cells its value was derived from (dependencies) and which cells were
// derived from it (dependents).
//
// The Graph owns all nodes and a set of named matrices. A matrix is a 2D grid
// of node IDs (rows outer, columns inner). Matrices are created or replaced
// wholesale via InitMatrix; nodes are never deleted individually.
//
// Invariants maintained by every mutation:
//
//	edge symmetry:   B ∈ A.dependents ⇔ A ∈ B.dependencies
//	no duplicates:   each adjacency list holds an ID at most once,
//	                 in insertion order.
//
// Core Methods:
//
//	// Matrix lifecycle
//	InitMatrix(name, rows, cols) error          // O(r*c)
//	ElementAt(name, row, col) (*Node, bool)     // O(1)
//	UpdateElement(name, row, col, v, color, ...) bool
//	MatrixData(name) ([][]*Node, bool)          // O(r*c)
//
//	// Edges
//	AddDependency(targetID, sourceID) bool      // O(1)
//	ClearMatrixDependencies(name)               // O(r*c + E_in)
//
//	// Queries
//	AllDependencies(id) Set                     // reflexive closure, O(V+E)
//	AllDependents(id) Set                       // reflexive closure, O(V+E)
//	CSRWithIDs(name) (*CSR, bool)               // O(r*c)
//
//	// Maintenance
//	Clear()                                     // drops everything, resets IDs
//
// A Graph is a single mutable structure with no internal locking. Callers
// that share a Graph across goroutines must serialise access themselves
// (see package workspace).
//
// Errors:
//
//	ErrBadShape   - InitMatrix with rows <= 0 or cols <= 0.
package depgraph
