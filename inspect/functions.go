package inspect

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/katalvlaran/matinspect/matrix"
)

// Tolerances used by allclose.
const (
	RelTol = 1e-9
	AbsTol = 1e-12
)

func functions() []expr.Option {
	return []expr.Option{
		expr.Function("nnz", unary(func(m *matrix.Dense) (any, error) {
			return m.NNZ(), nil
		}), new(func([][]float64) int)),

		expr.Function("sum", unary(func(m *matrix.Dense) (any, error) {
			return m.Sum(), nil
		}), new(func([][]float64) float64)),

		expr.Function("trace", unary(func(m *matrix.Dense) (any, error) {
			return m.Trace()
		}), new(func([][]float64) float64)),

		expr.Function("rows", unary(func(m *matrix.Dense) (any, error) {
			return m.Rows(), nil
		}), new(func([][]float64) int)),

		expr.Function("cols", unary(func(m *matrix.Dense) (any, error) {
			return m.Cols(), nil
		}), new(func([][]float64) int)),

		expr.Function("transpose", unary(func(m *matrix.Dense) (any, error) {
			t, err := matrix.Transpose(m)
			if err != nil {
				return nil, err
			}
			return t.ToRows(), nil
		}), new(func([][]float64) [][]float64)),

		expr.Function("at", func(params ...any) (any, error) {
			m, err := dense(params[0])
			if err != nil {
				return nil, err
			}
			return m.At(params[1].(int), params[2].(int))
		}, new(func([][]float64, int, int) float64)),

		expr.Function("mul", binary(func(a, b *matrix.Dense) (any, error) {
			p, err := matrix.Mul(a, b)
			if err != nil {
				return nil, err
			}
			return p.ToRows(), nil
		}), new(func([][]float64, [][]float64) [][]float64)),

		expr.Function("allclose", binary(func(a, b *matrix.Dense) (any, error) {
			return matrix.AllClose(a, b, RelTol, AbsTol)
		}), new(func([][]float64, [][]float64) bool)),
	}
}

func unary(fn func(*matrix.Dense) (any, error)) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		m, err := dense(params[0])
		if err != nil {
			return nil, err
		}
		return fn(m)
	}
}

func binary(fn func(a, b *matrix.Dense) (any, error)) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		a, err := dense(params[0])
		if err != nil {
			return nil, err
		}
		b, err := dense(params[1])
		if err != nil {
			return nil, err
		}
		return fn(a, b)
	}
}

func dense(v any) (*matrix.Dense, error) {
	rows, ok := v.([][]float64)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotMatrix, v)
	}

	return matrix.FromRows(rows)
}
