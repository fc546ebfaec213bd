// Package matrix_test contains unit tests for Dense and its kernels.
package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matinspect/matrix"
)

// mustRows builds a Dense from rows or fails the test.
func mustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.FromRows(rows)
	require.NoError(t, err)

	return m
}

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)                      // attempt to create with zero rows
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions

	_, err = matrix.NewDense(5, -1)                      // attempt to create with negative columns
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions
}

// TestAtSetOutOfBounds ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfBounds(t *testing.T) {
	m, err := matrix.NewDense(2, 2) // create a 2x2 Dense matrix
	require.NoError(t, err)

	_, err = m.At(-1, 0)                          // negative row index
	require.ErrorIs(t, err, matrix.ErrOutOfRange) // expect ErrOutOfRange
	_, err = m.At(0, 2)                           // column index out of range
	require.ErrorIs(t, err, matrix.ErrIndexOutOfBounds)
	require.ErrorIs(t, m.Set(2, 0, 1), matrix.ErrOutOfRange)
}

// TestSetRejectsNaNInf verifies the finite-only numeric policy.
func TestSetRejectsNaNInf(t *testing.T) {
	m, err := matrix.NewDense(1, 1)
	require.NoError(t, err)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)

	err = m.Apply(func(_, _ int, _ float64) float64 { return math.Inf(-1) })
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

// TestFromRowsRoundTrip checks FromRows/ToRows symmetry and input validation.
func TestFromRowsRoundTrip(t *testing.T) {
	in := [][]float64{{1, 2, 3}, {4, 5, 6}}
	m := mustRows(t, in)
	require.Equal(t, 2, m.Rows())
	require.Equal(t, 3, m.Cols())
	require.Equal(t, in, m.ToRows())

	out := m.ToRows()
	out[0][0] = 99 // the copy is independent
	v, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)

	_, err = matrix.FromRows(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.FromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrRagged)
}

// TestCloneIndependence ensures Clone() returns a deep copy that does not share storage.
func TestCloneIndependence(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 0}, {0, 2}})
	clone := m.Clone()
	require.NoError(t, clone.Set(0, 0, 3))

	v, _ := m.At(0, 0)
	require.Equal(t, 1.0, v) // original unchanged
}

// TestString renders rows with the standard delimiters.
func TestString(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 0.5}, {0, 2}})
	require.Equal(t, "[1, 0.5]\n[0, 2]\n", m.String())
}

// TestDoEarlyExit stops visiting after the callback returns false.
func TestDoEarlyExit(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	visited := 0
	m.Do(func(_, _ int, v float64) bool {
		visited++
		return v < 2
	})
	require.Equal(t, 2, visited)
}

// TestMulTranspose checks the value kernels against hand-computed results.
func TestMulTranspose(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {0, 1}})
	b := mustRows(t, [][]float64{{0, 1}, {1, 0}})

	p, err := matrix.Mul(a, b)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{2, 1}, {1, 0}}, p.ToRows())

	tr, err := matrix.Transpose(mustRows(t, [][]float64{{1, 2, 3}}))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1}, {2}, {3}}, tr.ToRows())

	_, err = matrix.Mul(a, tr)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Mul(nil, a)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestReductions covers NNZ, Sum, Trace and AllClose.
func TestReductions(t *testing.T) {
	m := mustRows(t, [][]float64{{1, 0}, {0, 3}})
	require.Equal(t, 2, m.NNZ())
	require.Equal(t, 4.0, m.Sum())
	tr, err := m.Trace()
	require.NoError(t, err)
	require.Equal(t, 4.0, tr)

	_, err = mustRows(t, [][]float64{{1, 2}}).Trace()
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	ok, err := matrix.AllClose(m, mustRows(t, [][]float64{{1, 1e-12}, {0, 3}}), 0, 1e-9)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = matrix.AllClose(m, mustRows(t, [][]float64{{1, 0}, {0, 2}}), 0, 1e-9)
	require.NoError(t, err)
	require.False(t, ok)
	_, err = matrix.AllClose(m, mustRows(t, [][]float64{{1}}), 0, 0)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
