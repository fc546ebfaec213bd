// Package document is the persisted form of a matinspect workspace.
//
// What & Why:
//
//	A Document carries the painted base matrices (nonzero cells only), the
//	formula, the shapes and the paint modes. Computed matrices are never
//	stored: importing a document always ends with a recompute, so stale
//	results cannot be loaded.
//
// Versions:
//
//	1  the original fixed layout: S_left and S_right rows×cols, K cols×rows,
//	   computed KS and O stored alongside. No formula.
//	2  formula and iteration count; every base matrix shares Dimensions.
//	3  per-matrix MatrixDimensions (current).
//
//	Decode accepts every version and migrates one step at a time with
//	Migrate; Encode always writes CurrentVersion.
//
// Encodings:
//
//	JSON (encoding/json) and YAML (gopkg.in/yaml.v3) share the same field
//	names, so a document converts between them losslessly.
//
// Errors:
//
//	*FormatError locates the failing field and wraps one of
//	ErrUnsupportedVersion, ErrMissingField, ErrInvalidDimensions,
//	ErrCellOutOfRange, ErrInvalidFormula, ErrInvalidIterations,
//	ErrInvalidName. Match with errors.Is / errors.As.
package document
