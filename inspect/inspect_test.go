package inspect_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matinspect/inspect"
	"github.com/katalvlaran/matinspect/workspace"
)

// swapEnv is A*B with A the identity and B the 2×2 swap, so O equals B.
func swapEnv(t *testing.T) inspect.Env {
	t.Helper()
	w := workspace.New(
		workspace.WithConfig(workspace.Config{Rows: 2, Cols: 2}),
		workspace.WithFormula("A*B"),
	)
	require.NoError(t, w.Paint("A", 0, 0, 1, ""))
	require.NoError(t, w.Paint("A", 1, 1, 1, ""))
	require.NoError(t, w.Paint("B", 0, 1, 1, ""))
	require.NoError(t, w.Paint("B", 1, 0, 1, ""))
	_, err := w.Recompute(context.Background())
	require.NoError(t, err)

	env, err := inspect.FromWorkspace(w)
	require.NoError(t, err)

	return env
}

func TestFromWorkspace(t *testing.T) {
	env := swapEnv(t)
	assert.Subset(t, env.Names(), []string{"A", "B", "O"})
	for _, name := range env.Names() {
		assert.NotContains(t, name, "#")
	}
	assert.Equal(t, [][]float64{{0, 1}, {1, 0}}, env["O"])
}

func TestEvalFloat(t *testing.T) {
	env := swapEnv(t)
	in := inspect.New()

	cases := []struct {
		expr string
		want float64
	}{
		{"nnz(O)", 2},
		{"sum(O)", 2},
		{"trace(O)", 0},
		{"at(O, 0, 1)", 1},
		{"rows(O) * cols(O)", 4},
		{"trace(mul(O, O))", 2},
		{"sum(transpose(B)) - sum(A)", 0},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := in.EvalFloat(tc.expr, env)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestCheck(t *testing.T) {
	env := swapEnv(t)
	in := inspect.New()

	ok, err := in.Check("allclose(O, mul(A, B))", env)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = in.Check("allclose(O, A)", env)
	require.NoError(t, err)
	assert.False(t, ok)

	// Cached program, new bindings.
	env["O"] = [][]float64{{1, 0}, {0, 1}}
	ok, err = in.Check("allclose(O, A)", env)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvalErrors(t *testing.T) {
	env := swapEnv(t)
	in := inspect.New()

	_, err := in.Eval("", env)
	require.ErrorIs(t, err, inspect.ErrEmptyExpression)

	_, err = in.Eval("nnz(O", env)
	require.Error(t, err)

	_, err = in.EvalFloat("at(O, 5, 0)", env)
	require.Error(t, err)

	_, err = in.Check("sum(O)", env)
	require.ErrorIs(t, err, inspect.ErrResultType)

	_, err = in.EvalFloat("nnz(O) > 1", env)
	require.ErrorIs(t, err, inspect.ErrResultType)
}

func ExampleInspector_EvalFloat() {
	env := inspect.Env{"K": {{1, 0}, {1, 1}}}
	v, err := inspect.New().EvalFloat("nnz(K) + trace(K)", env)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(v)
	// Output: 5
}
