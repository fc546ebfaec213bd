// SPDX-License-Identifier: MIT

package formula

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	tokenPattern = `([A-Z][a-z]*)(?:_(\{[^}]+\}|[A-Za-z0-9+]+))?(\^T)?`
	opMultiply   = "*"
)

var (
	tokenRegex       = regexp.MustCompile(tokenPattern)
	singleTokenRegex = regexp.MustCompile(`^` + tokenPattern + `$`)
	explicitRegex    = regexp.MustCompile(`^[A-Z][a-z]*_\d+$`)
	digitsRegex      = regexp.MustCompile(`^\d+$`)
)

// Parse turns a formula string into a Formula. A blank formula is a valid
// simple formula with a nil Expr. Failures are returned as *ParseError.
func Parse(s string) (*Formula, error) {
	if strings.TrimSpace(s) == "" {
		return &Formula{Mode: Simple, Raw: s}, nil
	}
	if strings.ContainsAny(s, "=,") {
		return parseIterative(s)
	}

	return parseSimple(s)
}

// Validate parses s and reports whether it would compute anything.
func Validate(s string) error {
	f, err := Parse(s)
	if err != nil {
		return err
	}
	if f.Mode == Iterative {
		if len(f.BaseCases) == 0 && f.Recurrence == nil {
			return ErrNoMatrices
		}
		return nil
	}
	if len(f.Variables) == 0 {
		return ErrNoMatrices
	}

	return nil
}

func parseSimple(s string) (*Formula, error) {
	tokens, err := tokenize(stripSpace(s))
	if err != nil {
		return nil, withFormula(err, s)
	}

	return &Formula{
		Mode:      Simple,
		Raw:       s,
		Variables: variableNames(tokens),
		Expr:      buildTree(tokens),
	}, nil
}

func parseIterative(s string) (*Formula, error) {
	f := &Formula{Mode: Iterative, Raw: s}
	explicit := make(map[string]struct{})

	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil, &ParseError{Formula: s, Pos: -1, Msg: s, Err: ErrEmptyFormula}
	}

	for _, part := range parts {
		if !strings.Contains(part, "=") {
			ref, ok := parseSingleToken(part)
			if !ok {
				return nil, &ParseError{Formula: s, Pos: -1, Msg: part, Err: ErrInvalidToken}
			}
			if ref.Subscript.Kind != SubscriptNumber {
				return nil, &ParseError{Formula: s, Pos: -1, Msg: part, Err: ErrNonNumericConstant}
			}
			f.Constants = append(f.Constants, ref)
			explicit[ref.Name()] = struct{}{}
			continue
		}

		sides := strings.Split(part, "=")
		if len(sides) != 2 {
			return nil, &ParseError{Formula: s, Pos: -1, Msg: part, Err: ErrInvalidAssignment}
		}
		lhs, rhs := strings.TrimSpace(sides[0]), stripSpace(sides[1])
		if lhs == "" || rhs == "" {
			return nil, &ParseError{Formula: s, Pos: -1, Msg: part, Err: ErrInvalidAssignment}
		}
		target, ok := parseSingleToken(lhs)
		if !ok {
			return nil, &ParseError{Formula: s, Pos: -1, Msg: "left-hand side " + lhs, Err: ErrInvalidAssignment}
		}
		tokens, err := tokenize(rhs)
		if err != nil {
			return nil, withFormula(err, s)
		}
		if len(tokens) == 0 {
			return nil, &ParseError{Formula: s, Pos: -1, Msg: part, Err: ErrInvalidAssignment}
		}
		for _, t := range tokens {
			if name := t.Name(); explicitRegex.MatchString(name) {
				explicit[name] = struct{}{}
			}
		}

		a := Assignment{Target: target, Expr: buildTree(tokens), Raw: part}
		switch {
		case target.Subscript.Kind == SubscriptSymbolic && !target.Subscript.Opaque():
			if f.Recurrence != nil {
				f.Warnings = append(f.Warnings, fmt.Sprintf(
					"recurrence %q replaces earlier recurrence %q", part, f.Recurrence.Raw))
			}
			f.Recurrence = &a
		case target.Subscript.Kind == SubscriptNumber:
			f.BaseCases = append(f.BaseCases, a)
			explicit[target.Name()] = struct{}{}
		default:
			f.BaseCases = append(f.BaseCases, a)
		}
	}
	f.ExplicitVariables = sortedKeys(explicit)

	return f, nil
}

// tokenize scans a whitespace-free expression. Only '*' may separate
// tokens, and it may not lead or trail.
func tokenize(cleaned string) ([]*MatrixRef, error) {
	matches := tokenRegex.FindAllStringSubmatchIndex(cleaned, -1)
	tokens := make([]*MatrixRef, 0, len(matches))
	lastEnd := 0
	for i, m := range matches {
		start, end := m[0], m[1]
		if op := cleaned[lastEnd:start]; op != "" || i > 0 {
			switch {
			case i == 0 && op == opMultiply:
				return nil, &ParseError{Pos: lastEnd, Msg: op, Err: ErrDanglingOperator}
			case i == 0:
				return nil, &ParseError{Pos: lastEnd, Msg: op, Err: ErrUnsupportedOperator}
			case op == "":
				// adjacent tokens such as "AB" would split into A and B
				return nil, &ParseError{Pos: start, Msg: "missing '*'", Err: ErrUnsupportedOperator}
			case op != opMultiply:
				return nil, &ParseError{Pos: lastEnd, Msg: op, Err: ErrUnsupportedOperator}
			}
		}
		ref := &MatrixRef{
			BaseName:  cleaned[m[2]:m[3]],
			Transpose: m[6] >= 0,
			Pos:       start,
		}
		if m[4] >= 0 {
			ref.Subscript = normalizeSubscript(cleaned[m[4]:m[5]])
		}
		tokens = append(tokens, ref)
		lastEnd = end
	}
	if rest := cleaned[lastEnd:]; rest != "" {
		if rest == opMultiply {
			return nil, &ParseError{Pos: lastEnd, Msg: rest, Err: ErrDanglingOperator}
		}
		return nil, &ParseError{Pos: lastEnd, Msg: rest, Err: ErrUnsupportedOperator}
	}

	return tokens, nil
}

func parseSingleToken(raw string) (*MatrixRef, bool) {
	m := singleTokenRegex.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return nil, false
	}
	ref := &MatrixRef{BaseName: m[1], Transpose: m[3] != ""}
	if m[2] != "" {
		ref.Subscript = normalizeSubscript(m[2])
	}

	return ref, true
}

func normalizeSubscript(raw string) Subscript {
	cleaned := raw
	if strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}") {
		cleaned = raw[1 : len(raw)-1]
	}
	if digitsRegex.MatchString(cleaned) {
		if n, err := strconv.Atoi(cleaned); err == nil {
			return Subscript{Kind: SubscriptNumber, Number: n}
		}
	}

	return Subscript{Kind: SubscriptSymbolic, Symbol: cleaned}
}

// buildTree folds tokens into a left-associative multiplication tree.
func buildTree(tokens []*MatrixRef) Expr {
	if len(tokens) == 0 {
		return nil
	}
	var tree Expr = tokens[0]
	for _, t := range tokens[1:] {
		tree = &Multiply{Left: tree, Right: t}
	}

	return tree
}

func variableNames(tokens []*MatrixRef) []string {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t.Name()] = struct{}{}
	}

	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func withFormula(err error, raw string) error {
	if pe, ok := err.(*ParseError); ok {
		pe.Formula = raw
	}

	return err
}
