// SPDX-License-Identifier: MIT

package engine

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/matinspect/depgraph"
)

var (
	// ErrDimensionMismatch indicates left.cols != right.rows in a product.
	ErrDimensionMismatch = errors.New("engine: dimension mismatch")

	// ErrUnknownMatrix indicates an operand that is not present in the graph.
	ErrUnknownMatrix = errors.New("engine: unknown matrix")

	// ErrAliasedResult indicates a product whose result is one of its operands.
	ErrAliasedResult = errors.New("engine: result matrix aliases an operand")

	// ErrInvalidConfig indicates a Config outside its documented ranges.
	ErrInvalidConfig = errors.New("engine: invalid config")
)

// DimensionError describes one skipped multiplication.
type DimensionError struct {
	Left, Right         string
	LeftDims, RightDims depgraph.Dims
	// Description is the display form of the failed product, if known.
	Description string
}

func (e *DimensionError) Error() string {
	msg := fmt.Sprintf("%v: %s is %dx%d, %s is %dx%d",
		ErrDimensionMismatch,
		e.Left, e.LeftDims.Rows, e.LeftDims.Cols,
		e.Right, e.RightDims.Rows, e.RightDims.Cols)
	if e.Description != "" {
		msg += " in " + e.Description
	}

	return msg
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

func unknownMatrix(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownMatrix, name)
}
