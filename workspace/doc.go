// Package workspace is the host-side session around a dependency graph:
// the formula, the painted base matrices, paint modes, highlighting and
// document import/export.
//
// Painting edits the graph at once; computed matrices only change when
// Recompute (or Import) runs. Both evaluate on a staged graph and swap it
// in on success, so callers never see a half-built state and a failed
// import leaves the previous session untouched.
//
// Paint modes:
//
//	Symmetric  writing (i,j) of a square matrix also writes (j,i).
//	Mirror     S_right follows S_left and rejects direct paint.
//
// Boundary forms:
//
//	Table / Element   render-ready CellView grids with dependency IDs.
//	CSR               colored compressed-sparse-row view (package csr).
//	Dense / LoadDense plain values as *matrix.Dense.
//	Export / Import   *document.Document.
package workspace
