package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matinspect/depgraph"
)

// paint creates name as a rows×cols matrix and writes values row-major;
// nonzero entries get color.
func paint(t *testing.T, g *depgraph.Graph, name string, rows, cols int, color string, values ...float64) {
	t.Helper()
	require.NoError(t, g.InitMatrix(name, rows, cols))
	require.Len(t, values, rows*cols)
	for k, v := range values {
		c := ""
		if v != 0 {
			c = color
		}
		require.True(t, g.UpdateElement(name, k/cols, k%cols, v, c))
	}
}

func cell(t *testing.T, g *depgraph.Graph, name string, row, col int) *depgraph.Node {
	t.Helper()
	n, ok := g.ElementAt(name, row, col)
	require.True(t, ok, "%s[%d][%d] missing", name, row, col)

	return n
}

func values(t *testing.T, g *depgraph.Graph, name string) [][]float64 {
	t.Helper()
	data, ok := g.MatrixData(name)
	require.True(t, ok, "matrix %s missing", name)
	out := make([][]float64, len(data))
	for i, row := range data {
		out[i] = make([]float64, len(row))
		for j, n := range row {
			out[i][j] = n.Value
		}
	}

	return out
}

// requireSymmetric checks edge symmetry over every node in g.
func requireSymmetric(t *testing.T, g *depgraph.Graph) {
	t.Helper()
	for _, aID := range g.NodeIDs() {
		a, _ := g.Node(aID)
		for _, bID := range a.Dependents() {
			b, ok := g.Node(bID)
			require.True(t, ok)
			require.True(t, b.DependsOn(aID), "%s lists dependent %s without the reverse edge", aID, bID)
		}
		for _, bID := range a.Dependencies() {
			require.NotEqual(t, aID, bID, "self-loop on %s", aID)
			b, ok := g.Node(bID)
			require.True(t, ok)
			require.Contains(t, b.Dependents(), aID)
		}
	}
}

// nodeState is a comparable rendering of one node.
type nodeState struct {
	Matrix     string
	Row, Col   int
	Value      float64
	Color      string
	Identity   bool
	Deps, Dpts []string
}

func graphState(g *depgraph.Graph) map[string]nodeState {
	out := make(map[string]nodeState, g.NodeCount())
	for _, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		out[id] = nodeState{
			Matrix: n.Matrix, Row: n.Row, Col: n.Col,
			Value: n.Value, Color: n.Color, Identity: n.Identity,
			Deps: n.Dependencies(), Dpts: n.Dependents(),
		}
	}

	return out
}

// matricesIn returns the matrices of the given node IDs.
func matricesIn(g *depgraph.Graph, ids depgraph.Set) map[string]bool {
	out := make(map[string]bool)
	for id := range ids {
		if n, ok := g.Node(id); ok {
			out[n.Matrix] = true
		}
	}

	return out
}
