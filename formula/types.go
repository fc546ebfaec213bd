// SPDX-License-Identifier: MIT

package formula

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Sentinel errors. Parse wraps them in a *ParseError.
var (
	// ErrUnsupportedOperator indicates text other than '*' between tokens.
	ErrUnsupportedOperator = errors.New("formula: unsupported operator")

	// ErrDanglingOperator indicates a '*' without a token on one side.
	ErrDanglingOperator = errors.New("formula: dangling operator")

	// ErrInvalidAssignment indicates a malformed LHS = RHS statement.
	ErrInvalidAssignment = errors.New("formula: invalid assignment")

	// ErrInvalidToken indicates a statement that is not a single matrix token.
	ErrInvalidToken = errors.New("formula: invalid matrix token")

	// ErrNonNumericConstant indicates a standalone constant without a numeric subscript.
	ErrNonNumericConstant = errors.New("formula: standalone matrices must have numeric subscripts")

	// ErrEmptyFormula indicates an iterative formula without statements.
	ErrEmptyFormula = errors.New("formula: no formulas provided")

	// ErrNoMatrices is returned by Validate when nothing would be computed.
	ErrNoMatrices = errors.New("formula: no matrices found in formula")
)

// ParseError is the structured error attached to a failed parse.
type ParseError struct {
	Formula string // raw input
	Pos     int    // byte offset inside the offending statement, -1 if unknown
	Msg     string // detail, e.g. the offending operator
	Err     error  // one of the sentinels above
}

func (e *ParseError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%v at %d: %s", e.Err, e.Pos, e.Msg)
	}

	return fmt.Sprintf("%v: %s", e.Err, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Mode distinguishes simple expressions from iterative definitions.
type Mode int

const (
	// Simple is a single product expression.
	Simple Mode = iota
	// Iterative is a set of base cases plus an optional recurrence.
	Iterative
)

func (m Mode) String() string {
	if m == Iterative {
		return "iterative"
	}

	return "simple"
}

// SubscriptKind classifies a normalised subscript.
type SubscriptKind int

const (
	SubscriptNone SubscriptKind = iota
	SubscriptNumber
	SubscriptSymbolic
)

// Symbolic subscripts understood by the evaluator.
const (
	SymbolCurrent = "n"
	SymbolNext    = "n+1"
)

// Subscript is a normalised token subscript.
type Subscript struct {
	Kind   SubscriptKind
	Number int    // valid when Kind == SubscriptNumber
	Symbol string // valid when Kind == SubscriptSymbolic
}

// String renders the subscript without the leading underscore, braced when
// it holds anything but letters and digits.
func (s Subscript) String() string {
	switch s.Kind {
	case SubscriptNumber:
		return strconv.Itoa(s.Number)
	case SubscriptSymbolic:
		if strings.IndexFunc(s.Symbol, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) >= 0 {
			return "{" + s.Symbol + "}"
		}
		return s.Symbol
	default:
		return ""
	}
}

// Expr is a node of the expression tree: *MatrixRef or *Multiply.
type Expr interface {
	expr()
}

// MatrixRef is a leaf: one occurrence of a matrix in the formula.
type MatrixRef struct {
	BaseName  string
	Subscript Subscript
	Transpose bool
	Pos       int // byte offset in the whitespace-stripped statement
}

// Multiply is an internal node: Left * Right.
type Multiply struct {
	Left, Right Expr
}

func (*MatrixRef) expr() {}
func (*Multiply) expr()  {}

// Opaque reports whether s is a symbolic label other than n or n+1, such as
// the "left" of S_left.
func (s Subscript) Opaque() bool {
	return s.Kind == SubscriptSymbolic && s.Symbol != SymbolCurrent && s.Symbol != SymbolNext
}

// Name returns the matrix the reference resolves to: "P_0" for numeric
// subscripts, "S_left" for opaque labels, and the bare base name for no
// subscript or an unresolved n / n+1.
func (r *MatrixRef) Name() string {
	switch {
	case r.Subscript.Kind == SubscriptNumber:
		return r.BaseName + "_" + strconv.Itoa(r.Subscript.Number)
	case r.Subscript.Opaque():
		return r.BaseName + "_" + r.Subscript.Symbol
	default:
		return r.BaseName
	}
}

// Assignment is one LHS = RHS statement of an iterative formula.
type Assignment struct {
	Target *MatrixRef
	Expr   Expr
	Raw    string
}

// Formula is the parse result.
type Formula struct {
	Mode Mode
	Raw  string

	// Simple mode.
	Variables []string // sorted, unique
	Expr      Expr     // nil for an empty formula

	// Iterative mode.
	BaseCases         []Assignment
	Recurrence        *Assignment
	Constants         []*MatrixRef
	ExplicitVariables []string // sorted, unique

	// Warnings reports accepted-but-ambiguous input, such as more than one
	// symbolic assignment (the last one wins).
	Warnings []string
}
