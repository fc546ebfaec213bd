// Package matinspect computes symbolic matrix products and remembers, for
// every computed cell, exactly which painted cells it came from.
//
// 🚀 What is matinspect?
//
//	A small engine behind a matrix "paint and inspect" tool:
//		• Formulas: products with transposes (S*K*S, A^T*B) and recurrences
//		  (K_0 = A, K_{n+1} = P_n^T*K_n*P_n)
//		• Provenance: a dependency graph of cells, queried both ways
//		• Persistence: versioned JSON/YAML documents with migrations
//		• Outputs: colored CSR views, dense tables, XLSX workbooks, expressions
//
// Packages:
//
//	depgraph/   cells, dependency edges, closure queries
//	formula/    parser for simple and iterative formulas
//	engine/     multiplication, transposition, the recompute cycle
//	csr/        colored CSR projection for renderers
//	matrix/     dense row-major matrices at the tabular boundary
//	document/   versioned save format (v1, v2, v3)
//	workspace/  host session: painting, recompute, highlight, import/export
//	gallery/    named saved documents (memory, SQLite)
//	report/     XLSX export
//	inspect/    expressions over computed matrices
//	cmd/matinspect  command-line front end
//
// Quick start:
//
//	w := workspace.New(workspace.WithFormula("S_left*K*S_right"))
//	_ = w.Paint("K", 0, 1, 1, "#E07A5F")
//	res, err := w.Recompute(ctx)
//	cell, _ := w.Element("O", 0, 1) // cell.Dependencies lists its sources
package matinspect
