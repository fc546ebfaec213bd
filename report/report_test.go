package report_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/katalvlaran/matinspect/report"
	"github.com/katalvlaran/matinspect/workspace"
)

func painted(t *testing.T) *workspace.Workspace {
	t.Helper()
	w := workspace.New(
		workspace.WithConfig(workspace.Config{Rows: 2, Cols: 2}),
		workspace.WithFormula("A*B"),
	)
	require.NoError(t, w.Paint("A", 0, 0, 1, "#f00"))
	require.NoError(t, w.Paint("A", 1, 1, 1, ""))
	require.NoError(t, w.SetIdentity("A", 1, 1, true))
	require.NoError(t, w.Paint("B", 0, 1, 1, "#00ff00"))
	require.NoError(t, w.Paint("B", 1, 0, 1, "#00ff00"))
	_, err := w.Recompute(context.Background())
	require.NoError(t, err)

	return w
}

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	return f
}

func TestWriteWorkbook(t *testing.T) {
	w := painted(t)
	sheets, err := report.FromWorkspace(w)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteWorkbook(&buf, sheets))
	f := open(t, buf.Bytes())

	assert.Equal(t, []string{"A", "B", "O", report.ProvenanceSheet}, f.GetSheetList())

	v, err := f.GetCellValue("O", "B1")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
	v, err = f.GetCellValue("O", "A1")
	require.NoError(t, err)
	assert.Equal(t, "0", v)

	// Painted and identity cells are styled, empty ones are not.
	style, err := f.GetCellStyle("A", "A1")
	require.NoError(t, err)
	assert.NotZero(t, style)
	style, err = f.GetCellStyle("A", "B2")
	require.NoError(t, err)
	assert.NotZero(t, style)
	style, err = f.GetCellStyle("A", "B1")
	require.NoError(t, err)
	assert.Zero(t, style)

	rows, err := f.GetRows(report.ProvenanceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"matrix", "row", "col", "id", "value", "dependencies"}, rows[0])
	assert.Equal(t, "O", rows[1][0])
	assert.Equal(t, "0", rows[1][1])
	assert.Equal(t, "1", rows[1][2])
	deps := strings.Fields(rows[1][5])
	assert.Len(t, deps, 2)
}

func TestFromWorkspaceNamed(t *testing.T) {
	w := painted(t)
	sheets, err := report.FromWorkspace(w, "B")
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.False(t, sheets[0].Provenance)

	_, err = report.FromWorkspace(w, "Z")
	require.ErrorIs(t, err, workspace.ErrUnknownMatrix)
}

func TestSaveWorkbook(t *testing.T) {
	w := painted(t)
	sheets, err := report.FromWorkspace(w, "O")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "o.xlsx")
	require.NoError(t, report.SaveWorkbook(path, sheets))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"O", report.ProvenanceSheet}, f.GetSheetList())
}

func TestWorkbookRejects(t *testing.T) {
	var buf bytes.Buffer
	require.ErrorIs(t, report.WriteWorkbook(&buf, nil), report.ErrNoSheets)

	dup := []report.Sheet{{Name: "a:b"}, {Name: "A_B"}}
	require.ErrorIs(t, report.WriteWorkbook(&buf, dup), report.ErrDuplicateSheet)

	reserved := []report.Sheet{{Name: report.ProvenanceSheet}}
	require.ErrorIs(t, report.WriteWorkbook(&buf, reserved), report.ErrDuplicateSheet)
	assert.Zero(t, buf.Len())
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "K_0_", report.SheetName("K[0]"))
	assert.Equal(t, "a_b", report.SheetName("'a/b'"))
	assert.Equal(t, "_", report.SheetName(""))
	assert.Len(t, report.SheetName(strings.Repeat("x", 40)), 31)
}
