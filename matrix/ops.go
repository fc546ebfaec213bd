// SPDX-License-Identifier: MIT

// Package matrix - value-only kernels over Dense.
//
// Purpose:
//   - Give hosts a reference product to check dependency-tracked results
//     against, and the small reductions numeric inspection needs.
//   - Inputs are never mutated; every kernel allocates its result.

package matrix

import (
	"fmt"
	"math"
)

const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opAllClose  = "AllClose"
	opTrace     = "Trace"
)

// matrixErrorf wraps err with an operation tag: "<tag>: <err>".
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul returns a×b.
// Implementation:
//   - Stage 1: validate non-nil operands and a.Cols == b.Rows.
//   - Stage 2: i→k→j loop over the flat buffers, skipping zero a[i,k].
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, wrapped with "Mul".
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b *Dense) (*Dense, error) {
	if a == nil || b == nil {
		return nil, matrixErrorf(opMul, ErrNilMatrix)
	}
	if a.c != b.r {
		return nil, matrixErrorf(opMul, ErrDimensionMismatch)
	}
	res, err := NewDense(a.r, b.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var i, j, k, rowA, rowB, rowR int
	var av float64
	for i = 0; i < a.r; i++ {
		rowA = i * a.c
		rowR = i * b.c
		for k = 0; k < a.c; k++ {
			av = a.data[rowA+k]
			if av == 0 {
				continue // skip zero for performance
			}
			rowB = k * b.c
			for j = 0; j < b.c; j++ {
				res.data[rowR+j] += av * b.data[rowB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns mᵀ.
// Complexity: Time O(r*c), Space O(r*c).
func Transpose(m *Dense) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opTranspose, ErrNilMatrix)
	}
	res, err := NewDense(m.c, m.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			res.data[j*m.r+i] = m.data[base+j]
		}
	}

	return res, nil
}

// AllClose reports whether a and b have the same shape and every pair of
// elements satisfies |a-b| <= atol + rtol*|b|.
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, wrapped with "AllClose".
//
// Complexity: O(r*c).
func AllClose(a, b *Dense, rtol, atol float64) (bool, error) {
	if a == nil || b == nil {
		return false, matrixErrorf(opAllClose, ErrNilMatrix)
	}
	if a.r != b.r || a.c != b.c {
		return false, matrixErrorf(opAllClose, ErrDimensionMismatch)
	}
	for k, av := range a.data {
		bv := b.data[k]
		if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
			return false, nil
		}
	}

	return true, nil
}

// NNZ counts nonzero elements.
// Complexity: O(r*c).
func (m *Dense) NNZ() int {
	n := 0
	for _, v := range m.data {
		if v != 0 {
			n++
		}
	}

	return n
}

// Sum returns the sum of all elements.
// Complexity: O(r*c).
func (m *Dense) Sum() float64 {
	var s float64
	for _, v := range m.data {
		s += v
	}

	return s
}

// Trace returns the sum of the main diagonal of a square matrix.
// Errors: ErrDimensionMismatch when m is not square.
// Complexity: O(n).
func (m *Dense) Trace() (float64, error) {
	if m.r != m.c {
		return 0, matrixErrorf(opTrace, ErrDimensionMismatch)
	}
	var s float64
	var i int
	for i = 0; i < m.r; i++ {
		s += m.data[i*m.c+i]
	}

	return s, nil
}
