// Package inspect evaluates expressions over computed matrices.
//
// An Env binds matrix names to row-major tables. Expressions use the
// expr-lang syntax with a small set of matrix functions:
//
//	nnz(K) > 3
//	sum(O) == trace(mul(K, transpose(K)))
//	at(O, 0, 1)
//	rows(O) * cols(O)
//	allclose(O, mul(S_left, K))
//
// Compiled programs are cached per expression.
package inspect

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/katalvlaran/matinspect/workspace"
)

var (
	// ErrEmptyExpression indicates a blank expression.
	ErrEmptyExpression = errors.New("inspect: empty expression")

	// ErrNotMatrix indicates a function argument that is not a matrix.
	ErrNotMatrix = errors.New("inspect: argument is not a matrix")

	// ErrResultType indicates an expression whose value has the wrong type.
	ErrResultType = errors.New("inspect: unexpected result type")
)

// Env maps matrix names to row-major values.
type Env map[string][][]float64

// identifier matches names an expression can refer to. Instance and
// transpose copies such as "K#2" are skipped.
var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// FromWorkspace binds every matrix of w whose name is a valid identifier.
func FromWorkspace(w *workspace.Workspace) (Env, error) {
	env := make(Env)
	for _, name := range w.MatrixNames() {
		if !identifier.MatchString(name) {
			continue
		}
		m, err := w.Dense(name)
		if err != nil {
			return nil, err
		}
		env[name] = m.ToRows()
	}

	return env, nil
}

// Names returns the bound names, sorted.
func (e Env) Names() []string {
	out := make([]string, 0, len(e))
	for name := range e {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// Inspector compiles and runs expressions. The zero value is not usable;
// call New.
type Inspector struct {
	cache sync.Map // expression -> *vm.Program
	opts  []expr.Option
}

// New returns an Inspector with the matrix function set installed.
func New() *Inspector {
	return &Inspector{opts: functions()}
}

// Eval evaluates expression against env.
func (in *Inspector) Eval(expression string, env Env) (any, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	vars := make(map[string]any, len(env))
	for name, rows := range env {
		vars[name] = rows
	}
	program, err := in.compile(expression, vars)
	if err != nil {
		return nil, fmt.Errorf("inspect: compile %q: %w", expression, err)
	}
	out, err := expr.Run(program, vars)
	if err != nil {
		return nil, fmt.Errorf("inspect: evaluate %q: %w", expression, err)
	}

	return out, nil
}

// EvalFloat evaluates expression and converts a numeric result to float64.
func (in *Inspector) EvalFloat(expression string, env Env) (float64, error) {
	out, err := in.Eval(expression, env)
	if err != nil {
		return 0, err
	}
	switch v := out.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: %q gave %T, want number", ErrResultType, expression, out)
	}
}

// Check evaluates a boolean expression.
func (in *Inspector) Check(expression string, env Env) (bool, error) {
	out, err := in.Eval(expression, env)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q gave %T, want bool", ErrResultType, expression, out)
	}

	return b, nil
}

func (in *Inspector) compile(expression string, vars map[string]any) (*vm.Program, error) {
	if cached, ok := in.cache.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	opts := append([]expr.Option{expr.Env(vars), expr.AllowUndefinedVariables()}, in.opts...)
	program, err := expr.Compile(expression, opts...)
	if err != nil {
		return nil, err
	}
	in.cache.Store(expression, program)

	return program, nil
}
