// SPDX-License-Identifier: MIT

package formula

// Walk calls fn for every MatrixRef leaf of e in source order.
func Walk(e Expr, fn func(ref *MatrixRef)) {
	switch n := e.(type) {
	case *MatrixRef:
		fn(n)
	case *Multiply:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	}
}

// Resolve returns a copy of e whose leaves are replaced by fn(leaf); the
// evaluator uses it to bind symbolic subscripts to concrete indices.
// fn receives a copy and may modify it in place. e is not modified.
func Resolve(e Expr, fn func(ref *MatrixRef) *MatrixRef) Expr {
	switch n := e.(type) {
	case *MatrixRef:
		cp := *n
		return fn(&cp)
	case *Multiply:
		return &Multiply{Left: Resolve(n.Left, fn), Right: Resolve(n.Right, fn)}
	default:
		return nil
	}
}

// String renders e fully parenthesised, e.g. "((P^T * K_0) * P)".
func String(e Expr) string {
	switch n := e.(type) {
	case *MatrixRef:
		return DisplayName(n)
	case *Multiply:
		return "(" + String(n.Left) + " * " + String(n.Right) + ")"
	default:
		return ""
	}
}

// DisplayName renders a token as written: "A", "A^T", "P_0", "K_{n+1}".
func DisplayName(ref *MatrixRef) string {
	if ref == nil {
		return ""
	}
	name := ref.BaseName
	if ref.Subscript.Kind != SubscriptNone {
		name += "_" + ref.Subscript.String()
	}
	if ref.Transpose {
		name += "^T"
	}

	return name
}

// Reference describes one matrix occurrence for display.
type Reference struct {
	Name        string
	DisplayName string
	Transpose   bool
	// Editable is false for transposed occurrences, which are views.
	Editable bool
}

// BaseMatrices returns the user-paintable matrices a formula needs, sorted.
// For iterative formulas these are the explicitly numbered matrices that no
// base case computes, plus every unsubscripted matrix referenced on a
// right-hand side (bare or with an opaque label such as S_left).
func BaseMatrices(f *Formula) []string {
	if f == nil {
		return nil
	}
	if f.Mode == Simple {
		out := make([]string, len(f.Variables))
		copy(out, f.Variables)
		return out
	}
	set := make(map[string]struct{}, len(f.ExplicitVariables))
	for _, v := range f.ExplicitVariables {
		set[v] = struct{}{}
	}
	collect := func(ref *MatrixRef) {
		if ref.Subscript.Kind == SubscriptNone || ref.Subscript.Opaque() {
			set[ref.Name()] = struct{}{}
		}
	}
	for _, bc := range f.BaseCases {
		Walk(bc.Expr, collect)
	}
	if f.Recurrence != nil {
		Walk(f.Recurrence.Expr, collect)
	}
	for _, bc := range f.BaseCases {
		delete(set, bc.Target.Name())
	}

	return sortedKeys(set)
}

// References lists every matrix occurrence in evaluation order.
func References(f *Formula) []Reference {
	if f == nil {
		return nil
	}
	var out []Reference
	add := func(ref *MatrixRef) {
		out = append(out, Reference{
			Name:        ref.Name(),
			DisplayName: DisplayName(ref),
			Transpose:   ref.Transpose,
			Editable:    !ref.Transpose,
		})
	}
	if f.Mode == Simple {
		Walk(f.Expr, add)
		return out
	}
	for _, bc := range f.BaseCases {
		Walk(bc.Expr, add)
	}
	if f.Recurrence != nil {
		Walk(f.Recurrence.Expr, add)
	}

	return out
}
