// SPDX-License-Identifier: MIT

package document

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/matinspect/depgraph"
	"github.com/katalvlaran/matinspect/engine"
	"github.com/katalvlaran/matinspect/formula"
)

// Validate checks a CurrentVersion document:
//   - every shape is within MinSize..MaxSize;
//   - the formula parses;
//   - Iterations is 0 or 1..engine.MaxIterations;
//   - every cell lies inside its matrix shape and holds a finite value.
//
// Matrices are checked in name order so the first reported error is stable.
func Validate(d *Document) error {
	if d == nil {
		return &FormatError{Err: ErrMissingField}
	}
	if d.Version != CurrentVersion {
		return &FormatError{Version: d.Version, Err: ErrUnsupportedVersion}
	}
	if d.Dimensions == nil {
		return &FormatError{Version: d.Version, Field: "dimensions", Err: ErrMissingField}
	}
	if !inRange(*d.Dimensions) {
		return &FormatError{Version: d.Version, Field: "dimensions", Err: shapeError(*d.Dimensions)}
	}
	for _, name := range sortedNames(d.MatrixDimensions) {
		if s := d.MatrixDimensions[name]; !inRange(s) {
			return &FormatError{Version: d.Version, Field: "matrixDimensions." + name, Err: shapeError(s)}
		}
	}
	if _, err := formula.Parse(d.Formula); err != nil {
		return &FormatError{Version: d.Version, Field: "formula", Err: fmt.Errorf("%w: %w", ErrInvalidFormula, err)}
	}
	if d.Iterations < 0 || d.Iterations > engine.MaxIterations {
		return &FormatError{
			Version: d.Version,
			Field:   "iterations",
			Err:     fmt.Errorf("%w: %d not in 0..%d", ErrInvalidIterations, d.Iterations, engine.MaxIterations),
		}
	}

	for _, name := range sortedNames(d.Matrices) {
		if name == "" || engine.IsInstance(name) {
			return &FormatError{Version: d.Version, Field: fmt.Sprintf("matrices[%q]", name), Err: ErrInvalidName}
		}
		shape := d.Shape(name)
		for i, c := range d.Matrices[name] {
			field := fmt.Sprintf("matrices.%s[%d]", name, i)
			if c.Row < 0 || c.Row >= shape.Rows || c.Col < 0 || c.Col >= shape.Cols {
				return &FormatError{
					Version: d.Version,
					Field:   field,
					Err:     fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrCellOutOfRange, c.Row, c.Col, shape.Rows, shape.Cols),
				}
			}
			if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
				return &FormatError{Version: d.Version, Field: field, Err: fmt.Errorf("%w: value %v", ErrCellOutOfRange, c.Value)}
			}
		}
	}

	return nil
}

func inRange(s depgraph.Dims) bool {
	return s.Rows >= MinSize && s.Rows <= MaxSize && s.Cols >= MinSize && s.Cols <= MaxSize
}

func shapeError(s depgraph.Dims) error {
	return fmt.Errorf("%w: %dx%d not in %d..%d", ErrInvalidDimensions, s.Rows, s.Cols, MinSize, MaxSize)
}

func sortedNames[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}
