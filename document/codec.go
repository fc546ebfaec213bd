// SPDX-License-Identifier: MIT

package document

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format int

const (
	// JSON is the encoding the original application exported.
	JSON Format = iota
	// YAML is the hand-editable encoding.
	YAML
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps "json", "yaml" and "yml" (any case) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks the Format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Decode reads a document in any supported version, migrates it to
// CurrentVersion and validates it.
func Decode(data []byte, f Format) (*Document, error) {
	var d Document
	var err error
	switch f {
	case JSON:
		err = json.Unmarshal(data, &d)
	case YAML:
		err = yaml.Unmarshal(data, &d)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("document: decode %s: %w", f, err)
	}
	read := d.Version
	if d.Dimensions == nil {
		return nil, &FormatError{Version: read, Field: "dimensions", Err: ErrMissingField}
	}
	if d.Matrices == nil {
		return nil, &FormatError{Version: read, Field: "matrices", Err: ErrMissingField}
	}
	if err = Migrate(&d); err != nil {
		return nil, err
	}
	if err = Validate(&d); err != nil {
		return nil, err
	}

	return &d, nil
}

// DecodeJSON is Decode(data, JSON).
func DecodeJSON(data []byte) (*Document, error) { return Decode(data, JSON) }

// DecodeYAML is Decode(data, YAML).
func DecodeYAML(data []byte) (*Document, error) { return Decode(data, YAML) }

// Encode validates d and writes it. JSON output is indented by two spaces.
func Encode(d *Document, f Format) ([]byte, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}
	switch f {
	case JSON:
		return json.MarshalIndent(d, "", "  ")
	case YAML:
		return yaml.Marshal(d)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
}

// EncodeJSON is Encode(d, JSON).
func EncodeJSON(d *Document) ([]byte, error) { return Encode(d, JSON) }

// EncodeYAML is Encode(d, YAML).
func EncodeYAML(d *Document) ([]byte, error) { return Encode(d, YAML) }
