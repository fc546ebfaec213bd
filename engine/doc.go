// Package engine evaluates parsed formulas against a depgraph.Graph.
//
// Building blocks:
//
//	Multiply(g, left, right, result) error   // dependency-tracked product
//	Transpose(g, name) (string, error)       // writes name_T
//	CopyInto(g, src, dst) error              // result → output matrix
//	Instantiate(g, name, k) (string, error)  // per-occurrence copy name#k
//
// An Evaluator walks one expression tree. Every leaf occurrence becomes a
// fresh instance, so S*K*S reads S#1, K#1 and S#2, and highlighting can tell
// the two occurrences of S apart. Every product lands in a new intermediate
// matrix _TEMP_<n> described by its sub-expression.
//
// Provenance rules for one surviving term x*y of a product:
//
//	neither identity   contributes x and y
//	x identity         contributes y only
//	y identity         contributes x only
//	both identity      contributes nothing
//
// A cell contributes its own ID plus its recorded dependencies, unless it
// belongs to a derived matrix (an intermediate, transpose, copy target or an
// instance of one), in which case it passes on its dependencies only. So
// O = S_left*(K*S_right) depends on exactly the three painted cells and
// never on the hidden intermediate.
//
// Engine.Recompute runs a whole cycle: snapshot the painted matrices, clear
// the graph, rebuild them, evaluate, copy into the output. Rebuilding from
// scratch keeps node IDs and edges identical across repeated runs.
package engine
