// Package report writes matrices to XLSX workbooks.
//
// Each matrix becomes one worksheet holding its values, with painted cells
// filled in their color and identity cells set in italics. An optional
// "provenance" worksheet lists, for every cell of the chosen matrices that
// has dependencies, the IDs of the base cells it was derived from.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/katalvlaran/matinspect/workspace"
)

// ProvenanceSheet is the name of the dependency listing worksheet.
const ProvenanceSheet = "provenance"

// maxSheetName is the worksheet name limit imposed by Excel.
const maxSheetName = 31

var (
	// ErrNoSheets indicates an empty workbook request.
	ErrNoSheets = errors.New("report: no sheets")

	// ErrDuplicateSheet indicates two sheets mapping to the same worksheet name.
	ErrDuplicateSheet = errors.New("report: duplicate sheet name")
)

// Sheet is one matrix to be written.
type Sheet struct {
	Name       string
	Cells      [][]workspace.CellView
	Provenance bool // list dependencies on the provenance worksheet
}

// FromWorkspace collects the named matrices of w, or every painted matrix
// followed by the output when names is empty. The output matrix is marked
// for provenance.
func FromWorkspace(w *workspace.Workspace, names ...string) ([]Sheet, error) {
	if len(names) == 0 {
		names = append(w.PaintedMatrices(), w.Output())
	}
	out := w.Output()
	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		tbl, ok := w.Table(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", workspace.ErrUnknownMatrix, name)
		}
		sheets = append(sheets, Sheet{Name: name, Cells: tbl, Provenance: name == out})
	}

	return sheets, nil
}

// WriteWorkbook writes sheets as an XLSX workbook to w.
func WriteWorkbook(w io.Writer, sheets []Sheet) error {
	f, err := build(sheets)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err = f.Write(w); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}

	return nil
}

// SaveWorkbook writes sheets as an XLSX workbook at path.
func SaveWorkbook(path string, sheets []Sheet) error {
	f, err := build(sheets)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err = f.SaveAs(path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}

	return nil
}

// SheetName maps a matrix name to a valid worksheet name.
func SheetName(name string) string {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	s = strings.Trim(s, "'")
	if s == "" {
		s = "_"
	}
	if r := []rune(s); len(r) > maxSheetName {
		s = string(r[:maxSheetName])
	}

	return s
}

func build(sheets []Sheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	seen := make(map[string]struct{}, len(sheets)+1)
	seen[ProvenanceSheet] = struct{}{}
	for _, s := range sheets {
		name := strings.ToLower(SheetName(s.Name))
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSheet, s.Name)
		}
		seen[name] = struct{}{}
	}

	f := excelize.NewFile()
	b := &builder{f: f, styles: make(map[styleKey]int)}
	if err := b.write(sheets); err != nil {
		_ = f.Close()
		return nil, err
	}

	return f, nil
}
