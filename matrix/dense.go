// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Dense is an r×c float64 matrix stored row-major in one flat slice: the
// value at (i, j) lives at data[i*c+j]. Every stored value is finite.
type Dense struct {
	r, c int
	data []float64
}

var _ fmt.Stringer = (*Dense)(nil)

// cellError adds the operation and coordinates to a sentinel error.
func cellError(op string, row, col int, err error) error {
	return fmt.Errorf("matrix: %s(%d,%d): %w", op, row, col, err)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// NewDense returns a zero rows×cols matrix.
//
// Errors:
//   - ErrInvalidDimensions when either extent is not positive.
func NewDense(rows, cols int) (*Dense, error) {
	if rows < 1 || cols < 1 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// FromRows copies a rectangular table (rows outer) into a new Dense. This is
// how values handed over by a host enter the package.
//
// Errors:
//   - ErrInvalidDimensions for an empty table or an empty first row.
//   - ErrRagged when a row length differs from the first row.
//   - ErrNaNInf for a non-finite value, with its coordinates.
func FromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 {
		return nil, ErrInvalidDimensions
	}
	m, err := NewDense(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != m.c {
			return nil, fmt.Errorf("matrix: row %d has %d values, want %d: %w", i, len(row), m.c, ErrRagged)
		}
		for j, v := range row {
			if !finite(v) {
				return nil, cellError("FromRows", i, j, ErrNaNInf)
			}
		}
		copy(m.data[i*m.c:], row)
	}

	return m, nil
}

// Rows is the number of rows.
func (m *Dense) Rows() int { return m.r }

// Cols is the number of columns.
func (m *Dense) Cols() int { return m.c }

// Shape returns rows and cols together.
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

func (m *Dense) contains(row, col int) bool {
	return row >= 0 && row < m.r && col >= 0 && col < m.c
}

// At reads (row, col).
// Errors: ErrOutOfRange.
func (m *Dense) At(row, col int) (float64, error) {
	if !m.contains(row, col) {
		return 0, cellError("At", row, col, ErrOutOfRange)
	}

	return m.data[row*m.c+col], nil
}

// Set writes v at (row, col). The matrix is unchanged on error.
// Errors: ErrOutOfRange, ErrNaNInf.
func (m *Dense) Set(row, col int, v float64) error {
	if !m.contains(row, col) {
		return cellError("Set", row, col, ErrOutOfRange)
	}
	if !finite(v) {
		return cellError("Set", row, col, ErrNaNInf)
	}
	m.data[row*m.c+col] = v

	return nil
}

// Clone returns an independent copy.
func (m *Dense) Clone() *Dense {
	return &Dense{r: m.r, c: m.c, data: append([]float64(nil), m.data...)}
}

// ToRows returns the values as a fresh [][]float64, rows outer.
func (m *Dense) ToRows() [][]float64 {
	out := make([][]float64, m.r)
	for i := range out {
		out[i] = append([]float64(nil), m.data[i*m.c:(i+1)*m.c]...)
	}

	return out
}

// String prints one bracketed, comma-separated line per row, e.g.
//
//	[1, 0.5]
//	[0, 2]
func (m *Dense) String() string {
	var b strings.Builder
	for i := 0; i < m.r; i++ {
		b.WriteByte('[')
		for j, v := range m.data[i*m.c : (i+1)*m.c] {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteString("]\n")
	}

	return b.String()
}

// Do calls f for every element in row-major order and stops early when f
// returns false.
func (m *Dense) Do(f func(i, j int, v float64) bool) {
	for k, v := range m.data {
		if !f(k/m.c, k%m.c, v) {
			return
		}
	}
}

// Apply replaces every element with f(i, j, v), in row-major order. A
// non-finite result stops the walk with ErrNaNInf; elements already
// visited keep their new values.
func (m *Dense) Apply(f func(i, j int, v float64) float64) error {
	for k, v := range m.data {
		i, j := k/m.c, k%m.c
		nv := f(i, j, v)
		if !finite(nv) {
			return cellError("Apply", i, j, ErrNaNInf)
		}
		m.data[k] = nv
	}

	return nil
}
