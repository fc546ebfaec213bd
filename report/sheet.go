package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/katalvlaran/matinspect/workspace"
)

type styleKey struct {
	fill   string
	italic bool
}

// builder fills one workbook. Styles are shared between cells.
type builder struct {
	f      *excelize.File
	styles map[styleKey]int
}

func (b *builder) write(sheets []Sheet) error {
	first := b.f.GetSheetName(0)
	for i, s := range sheets {
		name := SheetName(s.Name)
		if i == 0 {
			if err := b.f.SetSheetName(first, name); err != nil {
				return fmt.Errorf("report: sheet %q: %w", s.Name, err)
			}
		} else if _, err := b.f.NewSheet(name); err != nil {
			return fmt.Errorf("report: sheet %q: %w", s.Name, err)
		}
		if err := b.matrix(name, s.Cells); err != nil {
			return err
		}
	}
	if err := b.provenance(sheets); err != nil {
		return err
	}
	b.f.SetActiveSheet(0)

	return nil
}

func (b *builder) matrix(sheet string, cells [][]workspace.CellView) error {
	for i, row := range cells {
		for j, c := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err = b.f.SetCellValue(sheet, ref, c.Value); err != nil {
				return fmt.Errorf("report: %s!%s: %w", sheet, ref, err)
			}
			key := styleKey{fill: fillColor(c.Color), italic: c.Identity}
			if key == (styleKey{}) {
				continue
			}
			style, err := b.style(key)
			if err != nil {
				return err
			}
			if err = b.f.SetCellStyle(sheet, ref, ref, style); err != nil {
				return fmt.Errorf("report: style %s!%s: %w", sheet, ref, err)
			}
		}
	}

	return nil
}

func (b *builder) style(key styleKey) (int, error) {
	if id, ok := b.styles[key]; ok {
		return id, nil
	}
	s := &excelize.Style{}
	if key.fill != "" {
		s.Fill = excelize.Fill{Type: "pattern", Color: []string{key.fill}, Pattern: 1}
	}
	if key.italic {
		s.Font = &excelize.Font{Italic: true}
	}
	id, err := b.f.NewStyle(s)
	if err != nil {
		return 0, fmt.Errorf("report: style: %w", err)
	}
	b.styles[key] = id

	return id, nil
}

// provenance lists the dependencies of every cell of the marked sheets.
func (b *builder) provenance(sheets []Sheet) error {
	var marked []Sheet
	for _, s := range sheets {
		if s.Provenance {
			marked = append(marked, s)
		}
	}
	if len(marked) == 0 {
		return nil
	}
	if _, err := b.f.NewSheet(ProvenanceSheet); err != nil {
		return fmt.Errorf("report: provenance sheet: %w", err)
	}
	header := []any{"matrix", "row", "col", "id", "value", "dependencies"}
	if err := b.f.SetSheetRow(ProvenanceSheet, "A1", &header); err != nil {
		return fmt.Errorf("report: provenance header: %w", err)
	}
	line := 2
	for _, s := range marked {
		for i, row := range s.Cells {
			for j, c := range row {
				if len(c.Dependencies) == 0 {
					continue
				}
				ref, err := excelize.CoordinatesToCellName(1, line)
				if err != nil {
					return err
				}
				values := []any{s.Name, i, j, c.ID, c.Value, strings.Join(c.Dependencies, " ")}
				if err = b.f.SetSheetRow(ProvenanceSheet, ref, &values); err != nil {
					return fmt.Errorf("report: provenance row %d: %w", line, err)
				}
				line++
			}
		}
	}

	return nil
}

// fillColor converts "#rgb" or "#rrggbb" to the RRGGBB form excelize
// expects, or returns "" when c is not a hex color.
func fillColor(c string) string {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	if len(c) != 6 {
		return ""
	}
	for _, r := range c {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return ""
		}
	}

	return strings.ToUpper(c)
}
