// SPDX-License-Identifier: MIT

package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/matinspect/depgraph"
	"github.com/katalvlaran/matinspect/formula"
)

// InstanceSeparator joins a matrix name and its occurrence index, as in "S#2".
// It cannot appear in a formula token.
const InstanceSeparator = "#"

// IsInstance reports whether name is a per-occurrence instance matrix or a
// transpose of one.
func IsInstance(name string) bool {
	return strings.Contains(name, InstanceSeparator)
}

// Evaluator walks expression trees against one graph. Occurrence indices
// persist across Evaluate calls, so several statements evaluated by the
// same Evaluator never reuse an instance name.
type Evaluator struct {
	g           *depgraph.Graph
	occurrences map[string]int
	errs        []error
}

// NewEvaluator returns an Evaluator writing into g.
func NewEvaluator(g *depgraph.Graph) *Evaluator {
	return &Evaluator{g: g, occurrences: make(map[string]int)}
}

// Errors returns the errors collected so far, in evaluation order.
func (e *Evaluator) Errors() []error {
	out := make([]error, len(e.errs))
	copy(out, e.errs)

	return out
}

// Evaluate evaluates expr and returns the name of the matrix holding its
// value. Both sides of a product are evaluated even when one fails, so
// every mismatch in the tree is collected; the failed product itself is
// skipped and its error returned.
func (e *Evaluator) Evaluate(expr formula.Expr) (string, error) {
	switch n := expr.(type) {
	case nil:
		return "", nil
	case *formula.MatrixRef:
		name := n.Name()
		e.occurrences[name]++
		return e.leaf(n, e.occurrences[name])
	case *formula.Multiply:
		left, lerr := e.Evaluate(n.Left)
		right, rerr := e.Evaluate(n.Right)
		if err := errors.Join(lerr, rerr); err != nil {
			return "", err
		}
		desc := "(" + e.describe(left) + " * " + e.describe(right) + ")"
		result := e.g.NextIntermediate(desc)
		if err := Multiply(e.g, left, right, result); err != nil {
			var de *DimensionError
			if errors.As(err, &de) {
				de.Description = desc
			}
			e.errs = append(e.errs, err)
			return "", err
		}
		return result, nil
	default:
		return "", fmt.Errorf("engine: unexpected expression %T", expr)
	}
}

// leaf builds the k-th occurrence of ref as a fresh instance, transposed if
// the token says so.
func (e *Evaluator) leaf(ref *formula.MatrixRef, k int) (string, error) {
	instance, err := Instantiate(e.g, ref.Name(), k)
	if err != nil {
		e.errs = append(e.errs, err)
		return "", err
	}
	if !ref.Transpose {
		return instance, nil
	}
	t, err := Transpose(e.g, instance)
	if err != nil {
		e.errs = append(e.errs, err)
		return "", err
	}

	return t, nil
}

// describe maps instance and intermediate names back to display text.
func (e *Evaluator) describe(name string) string {
	if d, ok := e.g.IntermediateDescription(name); ok {
		return d
	}
	base := strings.TrimSuffix(name, TransposeSuffix)
	transposed := base != name
	if i := strings.LastIndex(base, InstanceSeparator); i >= 0 {
		base = base[:i]
	}
	if transposed {
		return base + "^T"
	}

	return base
}

// Instantiate copies matrix name into a fresh grid called name#k. Values,
// colors and identity flags are copied. An instance of a base matrix is an
// independent set of cells; an instance of a derived matrix is itself
// derived and every cell depends on its source cell and that cell's
// dependencies.
func Instantiate(g *depgraph.Graph, name string, k int) (string, error) {
	src, ok := g.MatrixData(name)
	if !ok {
		return "", unknownMatrix(name)
	}
	d, _ := g.Dims(name)
	instance := name + InstanceSeparator + strconv.Itoa(k)
	if err := g.InitMatrix(instance, d.Rows, d.Cols); err != nil {
		return "", err
	}
	derived := g.IsDerived(name)
	if derived {
		g.MarkDerived(instance)
	}
	for i, row := range src {
		for j, s := range row {
			g.UpdateElement(instance, i, j, s.Value, s.Color,
				depgraph.WithIdentity(s.Identity), depgraph.WithColorIndex(s.ColorIndex))
			if !derived {
				continue
			}
			n, _ := g.ElementAt(instance, i, j)
			g.AddDependency(n.ID, s.ID)
			for _, dep := range s.Dependencies() {
				g.AddDependency(n.ID, dep)
			}
		}
	}

	return instance, nil
}
