package csr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matinspect/csr"
	"github.com/katalvlaran/matinspect/depgraph"
	"github.com/katalvlaran/matinspect/engine"
)

func TestExport_UnknownMatrix(t *testing.T) {
	v, ok := csr.Export(depgraph.New(), "NOPE")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestExport_ColorsFollowDirectDependencies(t *testing.T) {
	g := depgraph.New()
	require.NoError(t, g.InitMatrix("A", 1, 2))
	require.NoError(t, g.InitMatrix("B", 2, 1))
	g.UpdateElement("A", 0, 0, 1, "#f00")
	g.UpdateElement("A", 0, 1, 1, "") // uncolored contributor
	g.UpdateElement("B", 0, 0, 1, "#0f0")
	g.UpdateElement("B", 1, 0, 1, "#00f")
	require.NoError(t, engine.Multiply(g, "A", "B", "C"))

	v, ok := csr.Export(g, "C")
	require.True(t, ok)
	require.Equal(t, 1, v.NNZ())
	assert.Equal(t, []int{0, 1}, v.RowOffsets)
	assert.Equal(t, []string{"#f00", "#0f0", csr.Placeholder, "#00f"}, v.Values[0])
}

func TestExport_OwnColorFirstAndPlaceholder(t *testing.T) {
	g := depgraph.New()
	require.NoError(t, g.InitMatrix("M", 2, 2))
	g.UpdateElement("M", 0, 0, 1, "#abc")
	g.UpdateElement("M", 1, 1, 1, "")
	g.UpdateElement("M", 1, 0, 0, "#zero") // colored zero stays out

	v, ok := csr.Export(g, "M")
	require.True(t, ok)
	assert.Equal(t, 2, v.Rows)
	assert.Equal(t, []int{0, 1, 2}, v.RowOffsets)
	assert.Equal(t, []int{0, 1}, v.ColIndices)
	assert.Equal(t, [][]string{{"#abc"}, {csr.Placeholder}}, v.Values)

	cols, ids := v.Row(1)
	assert.Equal(t, []int{1}, cols)
	n, _ := g.ElementAt("M", 1, 1)
	assert.Equal(t, []string{n.ID}, ids)

	cols, ids = v.Row(5)
	assert.Nil(t, cols)
	assert.Nil(t, ids)
}

func TestExport_DoesNotMutate(t *testing.T) {
	g := depgraph.New()
	require.NoError(t, g.InitMatrix("M", 1, 1))
	g.UpdateElement("M", 0, 0, 2, "#a")
	before := g.NodeCount()

	_, ok := csr.Export(g, "M")
	require.True(t, ok)
	assert.Equal(t, before, g.NodeCount())
	n, _ := g.ElementAt("M", 0, 0)
	assert.Equal(t, 2.0, n.Value)
	assert.Empty(t, n.Dependencies())
}
