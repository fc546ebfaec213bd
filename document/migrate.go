// SPDX-License-Identifier: MIT

package document

import (
	"fmt"

	"github.com/katalvlaran/matinspect/depgraph"
	"github.com/katalvlaran/matinspect/formula"
)

// V1Formula is the product every version-1 document computed.
const V1Formula = "S_left*K*S_right"

// v1Computed are the matrices version 1 stored although they were derived.
var v1Computed = []string{"KS", "O"}

// migration upgrades a document by exactly one version.
type migration func(d *Document) error

var migrations = map[int]migration{
	Version1: fromV1,
	Version2: fromV2,
}

// Migrate upgrades d in place to CurrentVersion, one version at a time.
// A document already at CurrentVersion is left untouched.
//
// Errors: *FormatError wrapping ErrMissingField, ErrUnsupportedVersion or
// ErrInvalidFormula.
func Migrate(d *Document) error {
	if d == nil {
		return &FormatError{Err: ErrMissingField}
	}
	read := d.Version
	if read <= 0 {
		return &FormatError{Version: read, Field: "version", Err: ErrMissingField}
	}
	if read > CurrentVersion {
		return &FormatError{Version: read, Err: ErrUnsupportedVersion}
	}
	for d.Version < CurrentVersion {
		step, ok := migrations[d.Version]
		if !ok {
			return &FormatError{Version: read, Err: ErrUnsupportedVersion}
		}
		if err := step(d); err != nil {
			return &FormatError{Version: read, Err: err}
		}
	}

	return nil
}

// fromV1 introduces the formula the fixed layout computed. In version 1
// Dimensions described S_left and S_right (rows×cols) while K was
// cols×rows, so K gets its own shape record.
func fromV1(d *Document) error {
	if d.Dimensions == nil {
		return fmt.Errorf("%w: dimensions", ErrMissingField)
	}
	r, c := d.Dimensions.Rows, d.Dimensions.Cols
	d.Formula = V1Formula
	if d.MatrixDimensions == nil {
		d.MatrixDimensions = make(map[string]depgraph.Dims, 3)
	}
	d.MatrixDimensions["S_left"] = depgraph.Dims{Rows: r, Cols: c}
	d.MatrixDimensions["S_right"] = depgraph.Dims{Rows: r, Cols: c}
	d.MatrixDimensions["K"] = depgraph.Dims{Rows: c, Cols: r}
	for _, name := range v1Computed {
		delete(d.Matrices, name)
	}
	d.Version = Version2

	return nil
}

// fromV2 records the uniform shape of every base matrix of the formula.
func fromV2(d *Document) error {
	if d.Dimensions == nil {
		return fmt.Errorf("%w: dimensions", ErrMissingField)
	}
	f, err := formula.Parse(d.Formula)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormula, err)
	}
	for _, name := range formula.BaseMatrices(f) {
		if _, ok := d.MatrixDimensions[name]; ok {
			continue
		}
		if d.MatrixDimensions == nil {
			d.MatrixDimensions = make(map[string]depgraph.Dims)
		}
		d.MatrixDimensions[name] = *d.Dimensions
	}
	d.Version = Version3

	return nil
}
