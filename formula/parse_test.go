package formula_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matinspect/formula"
)

func TestParse_Empty(t *testing.T) {
	for _, s := range []string{"", "   ", "\t"} {
		f, err := formula.Parse(s)
		require.NoError(t, err)
		assert.Equal(t, formula.Simple, f.Mode)
		assert.Nil(t, f.Expr)
		assert.Empty(t, f.Variables)
	}
	assert.ErrorIs(t, formula.Validate(""), formula.ErrNoMatrices)
}

func TestParse_SingleToken(t *testing.T) {
	f, err := formula.Parse("A")
	require.NoError(t, err)
	ref, ok := f.Expr.(*formula.MatrixRef)
	require.True(t, ok)
	assert.Equal(t, "A", ref.BaseName)
	assert.False(t, ref.Transpose)
	assert.Equal(t, []string{"A"}, f.Variables)
}

func TestParse_LeftAssociative(t *testing.T) {
	f, err := formula.Parse("S * K * S")
	require.NoError(t, err)
	assert.Equal(t, "((S * K) * S)", formula.String(f.Expr))
	assert.Equal(t, []string{"K", "S"}, f.Variables)

	root, ok := f.Expr.(*formula.Multiply)
	require.True(t, ok)
	_, leftIsProduct := root.Left.(*formula.Multiply)
	assert.True(t, leftIsProduct)
}

func TestParse_TransposeAndSubscripts(t *testing.T) {
	f, err := formula.Parse("Sl^T*P_0*P_{12}^T*K_n*K_{n+1}*X_{ab}")
	require.NoError(t, err)

	var refs []*formula.MatrixRef
	formula.Walk(f.Expr, func(r *formula.MatrixRef) { refs = append(refs, r) })
	require.Len(t, refs, 6)

	assert.Equal(t, "Sl", refs[0].BaseName)
	assert.True(t, refs[0].Transpose)
	assert.Equal(t, formula.SubscriptNone, refs[0].Subscript.Kind)

	assert.Equal(t, formula.Subscript{Kind: formula.SubscriptNumber, Number: 0}, refs[1].Subscript)
	assert.Equal(t, "P_0", refs[1].Name())

	assert.Equal(t, 12, refs[2].Subscript.Number)
	assert.True(t, refs[2].Transpose)
	assert.Equal(t, "P_12^T", formula.DisplayName(refs[2]))

	assert.Equal(t, formula.SymbolCurrent, refs[3].Subscript.Symbol)
	assert.Equal(t, formula.SymbolNext, refs[4].Subscript.Symbol)
	assert.Equal(t, "K_{n+1}", formula.DisplayName(refs[4]))

	// unknown labels are kept as opaque symbols
	assert.Equal(t, formula.Subscript{Kind: formula.SubscriptSymbolic, Symbol: "ab"}, refs[5].Subscript)
	assert.Equal(t, "X_ab", refs[5].Name())
	assert.True(t, refs[5].Subscript.Opaque())
	assert.False(t, refs[3].Subscript.Opaque())
	assert.Equal(t, "K", refs[3].Name())
}

func TestParse_OpaqueLabelsNameDistinctMatrices(t *testing.T) {
	f, err := formula.Parse("S_left*K*S_right")
	require.NoError(t, err)
	assert.Equal(t, []string{"K", "S_left", "S_right"}, f.Variables)
	assert.Equal(t, "((S_left * K) * S_right)", formula.String(f.Expr))
}

func TestParse_BracedNumericEqualsBare(t *testing.T) {
	a, err := formula.Parse("P_{0}")
	require.NoError(t, err)
	b, err := formula.Parse("P_0")
	require.NoError(t, err)
	assert.Equal(t, a.Variables, b.Variables)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"A+B", formula.ErrUnsupportedOperator},
		{"A*B-C", formula.ErrUnsupportedOperator},
		{"AB", formula.ErrUnsupportedOperator},
		{"a*B", formula.ErrUnsupportedOperator},
		{"A*", formula.ErrDanglingOperator},
		{"*A", formula.ErrDanglingOperator},
		{"A**B", formula.ErrUnsupportedOperator},
		{"K_0 = A = B", formula.ErrInvalidAssignment},
		{"K_0 = ", formula.ErrInvalidAssignment},
		{"k = A", formula.ErrInvalidAssignment},
		{"K_0 = A, P_n", formula.ErrNonNumericConstant},
		{"K_0 = A, p", formula.ErrInvalidToken},
		{" , ,", formula.ErrEmptyFormula},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := formula.Parse(tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)

			var pe *formula.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tc.in, pe.Formula)
		})
	}
}

func TestParse_Iterative(t *testing.T) {
	f, err := formula.Parse("K_0 = A, K_{n+1} = P^T*K_n*P, P_1")
	require.NoError(t, err)
	assert.Equal(t, formula.Iterative, f.Mode)

	require.Len(t, f.BaseCases, 1)
	assert.Equal(t, "K_0", f.BaseCases[0].Target.Name())
	assert.Equal(t, "A", formula.String(f.BaseCases[0].Expr))

	require.NotNil(t, f.Recurrence)
	assert.Equal(t, formula.SymbolNext, f.Recurrence.Target.Subscript.Symbol)
	assert.Equal(t, "((P^T * K_n) * P)", formula.String(f.Recurrence.Expr))

	require.Len(t, f.Constants, 1)
	assert.Equal(t, "P_1", f.Constants[0].Name())

	assert.Equal(t, []string{"K_0", "P_1"}, f.ExplicitVariables)
	assert.Equal(t, []string{"A", "P", "P_1"}, formula.BaseMatrices(f))
	assert.Empty(t, f.Warnings)
	assert.NoError(t, formula.Validate(f.Raw))

	// Only n and n+1 targets form the recurrence; every other target,
	// labelled or bare, is a base case.
	cases := []struct {
		in         string
		baseCases  []string
		recurrence string
	}{
		{"X_foo = A, K_{n+1} = K_n*A", []string{"X_foo"}, "K_{n+1} = K_n*A"},
		{"X_foo = A", []string{"X_foo"}, ""},
		{"K = A, K_{n+1} = K_n*A", []string{"K"}, "K_{n+1} = K_n*A"},
		{"K_0 = A, S_left = B, K_n = K_n*S_left", []string{"K_0", "S_left"}, "K_n = K_n*S_left"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			f, err := formula.Parse(tc.in)
			require.NoError(t, err)
			var targets []string
			for _, bc := range f.BaseCases {
				targets = append(targets, bc.Target.Name())
			}
			assert.Equal(t, tc.baseCases, targets)
			if tc.recurrence == "" {
				assert.Nil(t, f.Recurrence)
			} else {
				require.NotNil(t, f.Recurrence)
				assert.Equal(t, tc.recurrence, f.Recurrence.Raw)
			}
			assert.Empty(t, f.Warnings)
		})
	}
}

func TestParse_IterativeTrailingComma(t *testing.T) {
	f, err := formula.Parse("K_0 = A,")
	require.NoError(t, err)
	assert.Equal(t, formula.Iterative, f.Mode)
	assert.Len(t, f.BaseCases, 1)
	assert.Nil(t, f.Recurrence)
}

func TestParse_SecondRecurrenceWinsWithWarning(t *testing.T) {
	f, err := formula.Parse("K_0 = A, K_{n+1} = K_n*B, K_{n+1} = K_n*C")
	require.NoError(t, err)
	require.NotNil(t, f.Recurrence)
	assert.Equal(t, "(K_n * C)", formula.String(f.Recurrence.Expr))
	require.Len(t, f.Warnings, 1)
	assert.Contains(t, f.Warnings[0], "K_{n+1} = K_n*B")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, formula.Validate("A*B"))
	assert.NoError(t, formula.Validate("K_{n+1} = K_n*P"))
	assert.ErrorIs(t, formula.Validate("A+B"), formula.ErrUnsupportedOperator)
}

func TestReferences(t *testing.T) {
	f, err := formula.Parse("A^T*B*A")
	require.NoError(t, err)
	refs := formula.References(f)
	require.Len(t, refs, 3)
	assert.Equal(t, formula.Reference{Name: "A", DisplayName: "A^T", Transpose: true, Editable: false}, refs[0])
	assert.Equal(t, formula.Reference{Name: "B", DisplayName: "B", Editable: true}, refs[1])
	assert.Equal(t, "A", refs[2].Name)
}

func TestResolve_DoesNotMutateSource(t *testing.T) {
	f, err := formula.Parse("K_{n+1} = P^T*K_n*P")
	require.NoError(t, err)

	bound := formula.Resolve(f.Recurrence.Expr, func(r *formula.MatrixRef) *formula.MatrixRef {
		if r.Subscript.Kind == formula.SubscriptSymbolic {
			r.Subscript = formula.Subscript{Kind: formula.SubscriptNumber, Number: 3}
		}
		return r
	})
	assert.Equal(t, "((P^T * K_3) * P)", formula.String(bound))
	assert.Equal(t, "((P^T * K_n) * P)", formula.String(f.Recurrence.Expr))
}
