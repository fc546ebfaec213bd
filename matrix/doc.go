// Package matrix provides Dense, the row-major float64 matrix used as the
// plain tabular form of matinspect matrices.
//
// What & Why:
//
//	The dependency graph stores one node per cell, which is the right shape
//	for provenance but the wrong one for handing values to a spreadsheet,
//	an expression engine or a test oracle. Dense is that boundary form: a
//	flat row-major buffer with bounds-checked accessors and a handful of
//	value-only kernels (Mul, Transpose, AllClose, NNZ, Sum, Trace).
//
// Complexity:
//
//	Rows(), Cols(), At() and Set() run in O(1) time.
//	Clone(), ToRows() and FromRows() run in O(rows*cols).
//	Mul() runs in O(r*n*c) and skips zero left-hand elements.
//
// Errors:
//
//	ErrInvalidDimensions, ErrOutOfRange, ErrDimensionMismatch, ErrRagged,
//	ErrNaNInf, ErrNilMatrix. Match with errors.Is.
package matrix
