// SPDX-License-Identifier: MIT

package engine

import (
	"github.com/katalvlaran/matinspect/depgraph"
)

// TransposeSuffix is appended to a matrix name to form its transpose.
const TransposeSuffix = "_T"

// contributors collects node IDs once each, in first-seen order.
type contributors struct {
	ids  []string
	seen map[string]struct{}
}

func (c *contributors) add(ids ...string) {
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	for _, id := range ids {
		if _, ok := c.seen[id]; ok {
			continue
		}
		c.seen[id] = struct{}{}
		c.ids = append(c.ids, id)
	}
}

// contribute adds what n passes on to a product: its own ID plus its
// recorded dependencies, or only the dependencies when n lives in a
// derived matrix.
func contribute(g *depgraph.Graph, c *contributors, n *depgraph.Node) {
	if !g.IsDerived(n.Matrix) {
		c.add(n.ID)
	}
	c.add(n.Dependencies()...)
}

// prepare makes name an r×c grid with no incoming edges. An existing grid
// of the right shape keeps its node IDs.
func prepare(g *depgraph.Graph, name string, d depgraph.Dims) error {
	if cur, ok := g.Dims(name); ok && cur == d {
		g.ClearMatrixDependencies(name)
		return nil
	}

	return g.InitMatrix(name, d.Rows, d.Cols)
}

type productCell struct {
	sum      float64
	identity bool
	deps     contributors
}

// Multiply computes result = left * right and wires the dependency edges of
// every result cell.
//
// Terms where either operand is zero are skipped. For each surviving term:
// two identity cells contribute nothing, one identity cell passes through
// only the other operand, otherwise both operands contribute. A result cell
// whose surviving terms are all identity pairs and whose value is 1 is
// itself an identity cell.
//
// On a shape mismatch a *DimensionError is returned and result is not
// touched. The result is (re)initialised when missing or wrongly shaped and
// is marked derived.
// Complexity: O(r*c*k).
func Multiply(g *depgraph.Graph, left, right, result string) error {
	if result == left || result == right {
		return ErrAliasedResult
	}
	ld, ok := g.Dims(left)
	if !ok {
		return unknownMatrix(left)
	}
	rd, ok := g.Dims(right)
	if !ok {
		return unknownMatrix(right)
	}
	if ld.Cols != rd.Rows {
		return &DimensionError{Left: left, Right: right, LeftDims: ld, RightDims: rd}
	}

	a, _ := g.MatrixData(left)
	b, _ := g.MatrixData(right)
	cells := make([][]productCell, ld.Rows)
	var i, j, k int
	for i = 0; i < ld.Rows; i++ {
		cells[i] = make([]productCell, rd.Cols)
		for j = 0; j < rd.Cols; j++ {
			pc := &cells[i][j]
			pc.identity = true
			terms := 0
			for k = 0; k < ld.Cols; k++ {
				x, y := a[i][k], b[k][j]
				if x.Value == 0 || y.Value == 0 {
					continue
				}
				terms++
				pc.sum += x.Value * y.Value
				switch {
				case x.Identity && y.Identity:
				case x.Identity:
					pc.identity = false
					contribute(g, &pc.deps, y)
				case y.Identity:
					pc.identity = false
					contribute(g, &pc.deps, x)
				default:
					pc.identity = false
					contribute(g, &pc.deps, x)
					contribute(g, &pc.deps, y)
				}
			}
			if terms == 0 || pc.sum != 1 {
				pc.identity = false
			}
		}
	}

	if err := prepare(g, result, depgraph.Dims{Rows: ld.Rows, Cols: rd.Cols}); err != nil {
		return err
	}
	g.MarkDerived(result)
	for i = range cells {
		for j = range cells[i] {
			pc := &cells[i][j]
			g.UpdateElement(result, i, j, pc.sum, "",
				depgraph.WithIdentity(pc.identity), depgraph.WithColorIndex(depgraph.NoColorIndex))
			n, _ := g.ElementAt(result, i, j)
			for _, src := range pc.deps.ids {
				g.AddDependency(n.ID, src)
			}
		}
	}

	return nil
}

// Transpose writes the transpose of name into name+"_T" and returns that
// name. Every transposed cell depends on its source cell and on all of the
// source's dependencies, so ancestry queries see through the transpose.
// Complexity: O(r*c*d) where d is the mean dependency count.
func Transpose(g *depgraph.Graph, name string) (string, error) {
	src, ok := g.MatrixData(name)
	if !ok {
		return "", unknownMatrix(name)
	}
	d, _ := g.Dims(name)
	target := name + TransposeSuffix
	if err := prepare(g, target, depgraph.Dims{Rows: d.Cols, Cols: d.Rows}); err != nil {
		return "", err
	}
	g.MarkDerived(target)
	for i, row := range src {
		for j, s := range row {
			g.UpdateElement(target, j, i, s.Value, s.Color,
				depgraph.WithIdentity(s.Identity), depgraph.WithColorIndex(s.ColorIndex))
			n, _ := g.ElementAt(target, j, i)
			g.AddDependency(n.ID, s.ID)
			for _, dep := range s.Dependencies() {
				g.AddDependency(n.ID, dep)
			}
		}
	}

	return target, nil
}

// CopyInto copies src into dst: values, colors and identity flags, plus
// one set of edges per nonzero cell carrying src's contribution. dst is
// resized when shapes differ and is marked derived.
func CopyInto(g *depgraph.Graph, src, dst string) error {
	if src == dst {
		return ErrAliasedResult
	}
	data, ok := g.MatrixData(src)
	if !ok {
		return unknownMatrix(src)
	}
	d, _ := g.Dims(src)

	// capture contributions before dst is touched
	deps := make([][]contributors, d.Rows)
	for i, row := range data {
		deps[i] = make([]contributors, d.Cols)
		for j, s := range row {
			if s.Value != 0 {
				contribute(g, &deps[i][j], s)
			}
		}
	}

	if err := prepare(g, dst, d); err != nil {
		return err
	}
	g.MarkDerived(dst)
	for i, row := range data {
		for j, s := range row {
			g.UpdateElement(dst, i, j, s.Value, s.Color,
				depgraph.WithIdentity(s.Identity), depgraph.WithColorIndex(s.ColorIndex))
			n, _ := g.ElementAt(dst, i, j)
			for _, id := range deps[i][j].ids {
				g.AddDependency(n.ID, id)
			}
		}
	}

	return nil
}
