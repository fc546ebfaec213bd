// SPDX-License-Identifier: MIT

// Package document declares the persisted workspace document, its format
// versions and sentinel errors.

package document

import (
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/matinspect/depgraph"
)

// Format versions.
const (
	// Version1 is the original fixed-layout document: S_left, K, S_right
	// plus the computed KS and O, no formula.
	Version1 = 1

	// Version2 adds the formula and iteration count; all base matrices
	// share Dimensions.
	Version2 = 2

	// Version3 adds per-matrix MatrixDimensions.
	Version3 = 3

	// CurrentVersion is what Encode writes.
	CurrentVersion = Version3
)

// Limits applied by Validate.
const (
	MinSize = 1
	MaxSize = 50
)

// Sentinel errors.
var (
	// ErrUnsupportedVersion indicates a version with no migration path.
	ErrUnsupportedVersion = errors.New("document: unsupported version")

	// ErrMissingField indicates a required top-level field is absent.
	ErrMissingField = errors.New("document: missing field")

	// ErrInvalidDimensions indicates a shape outside MinSize..MaxSize.
	ErrInvalidDimensions = errors.New("document: invalid dimensions")

	// ErrCellOutOfRange indicates a cell outside its matrix shape.
	ErrCellOutOfRange = errors.New("document: cell out of range")

	// ErrInvalidFormula indicates a formula that does not parse.
	ErrInvalidFormula = errors.New("document: invalid formula")

	// ErrInvalidIterations indicates an iteration count outside 0..engine.MaxIterations.
	ErrInvalidIterations = errors.New("document: invalid iterations")

	// ErrInvalidName indicates an empty matrix name or an instance name.
	ErrInvalidName = errors.New("document: invalid matrix name")

	// ErrUnknownFormat indicates an encoding other than JSON or YAML.
	ErrUnknownFormat = errors.New("document: unknown format")
)

// FormatError locates a decoding or validation failure inside a document.
type FormatError struct {
	Version int    // version as read, before migration
	Field   string // dotted path, e.g. "matrices.K[3]"
	Err     error
}

func (e *FormatError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v (version %d)", e.Err, e.Version)
	}

	return fmt.Sprintf("%v: %s (version %d)", e.Err, e.Field, e.Version)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Cell is one painted element. Only nonzero or identity cells are stored.
type Cell struct {
	Row      int     `json:"row" yaml:"row"`
	Col      int     `json:"col" yaml:"col"`
	Value    float64 `json:"value" yaml:"value"`
	Color    string  `json:"color,omitempty" yaml:"color,omitempty"`
	Identity bool    `json:"identity,omitempty" yaml:"identity,omitempty"`
}

// Configuration holds the paint modes.
type Configuration struct {
	// Symmetric paints (j,i) together with (i,j) on square matrices.
	Symmetric bool `json:"symmetric" yaml:"symmetric"`
	// Mirror keeps S_right equal to S_left.
	Mirror bool `json:"mirror" yaml:"mirror"`
}

// Document is the persisted state of a workspace. Computed matrices are
// never stored; they are recomputed after import.
type Document struct {
	Version   int       `json:"version" yaml:"version"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Formula   string    `json:"formula,omitempty" yaml:"formula,omitempty"`

	// Dimensions is the default shape of every base matrix.
	Dimensions *depgraph.Dims `json:"dimensions" yaml:"dimensions"`
	// MatrixDimensions overrides Dimensions per matrix.
	MatrixDimensions map[string]depgraph.Dims `json:"matrixDimensions,omitempty" yaml:"matrixDimensions,omitempty"`

	Configuration Configuration `json:"configuration" yaml:"configuration"`
	Iterations    int           `json:"iterations,omitempty" yaml:"iterations,omitempty"`

	Matrices map[string][]Cell `json:"matrices" yaml:"matrices"`
}

// Shape returns the stored shape of name: its MatrixDimensions entry, else
// Dimensions.
func (d *Document) Shape(name string) depgraph.Dims {
	if s, ok := d.MatrixDimensions[name]; ok {
		return s
	}
	if d.Dimensions == nil {
		return depgraph.Dims{}
	}

	return *d.Dimensions
}
