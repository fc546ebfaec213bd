package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/katalvlaran/matinspect/document"
)

const swapDoc = `{
  "version": 3,
  "timestamp": "2025-01-01T00:00:00Z",
  "formula": "A*B",
  "dimensions": {"rows": 2, "cols": 2},
  "configuration": {"symmetric": false, "mirror": false},
  "matrices": {
    "A": [{"row": 0, "col": 0, "value": 1}, {"row": 1, "col": 1, "value": 1}],
    "B": [{"row": 0, "col": 1, "value": 1}, {"row": 1, "col": 0, "value": 1}]
  }
}`

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swap.json")
	require.NoError(t, os.WriteFile(path, []byte(swapDoc), 0o600))

	return path
}

func invoke(args ...string) (code int, stdout, stderr string) {
	var out, errb bytes.Buffer
	code = cli(args, &out, &errb)

	return code, out.String(), errb.String()
}

func TestCLIPrintsOutput(t *testing.T) {
	code, out, stderr := invoke("-cell", "0,1", "-expr", "nnz(O)", "-expr", "allclose(O, B)", writeDoc(t))
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, out, "formula: A*B (simple, 2x2)")
	assert.Contains(t, out, "O =\n[0, 1]\n[1, 0]\n")
	assert.Contains(t, out, "O(0,1) = 1 from [")
	assert.Contains(t, out, "nnz(O) = 2\n")
	assert.Contains(t, out, "allclose(O, B) = true\n")
}

func TestCLIOverrideFormula(t *testing.T) {
	code, out, stderr := invoke("-formula", "B*B", "-show", "-", "-expr", "trace(O)", writeDoc(t))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "formula: B*B")
	assert.NotContains(t, out, "O =")
	assert.Contains(t, out, "trace(O) = 2\n")
}

func TestCLIWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	docOut := filepath.Join(dir, "out.yaml")
	xlsx := filepath.Join(dir, "out.xlsx")
	db := filepath.Join(dir, "gallery.db")

	code, _, stderr := invoke("-out", docOut, "-xlsx", xlsx, "-gallery", db, "-save", "swap", writeDoc(t))
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(docOut)
	require.NoError(t, err)
	d, err := document.DecodeYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "A*B", d.Formula)
	assert.Len(t, d.Matrices["B"], 2)

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	assert.Contains(t, f.GetSheetList(), "O")
	require.NoError(t, f.Close())

	code, out, stderr := invoke("-gallery", db, "-list")
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(out, "swap\t"), out)
	assert.Contains(t, out, "2x2\tA*B")

	code, out, stderr = invoke("-gallery", db, "-load", "swap", "-expr", "sum(O)")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "sum(O) = 2\n")
}

func TestCLIMetrics(t *testing.T) {
	code, out, stderr := invoke("-metrics", "-show", "-", writeDoc(t))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "matinspect_recompute_total{mode=simple,outcome=ok}")
}

func TestCLIFailures(t *testing.T) {
	cases := []struct {
		name string
		args []string
		code int
	}{
		{"unknown flag", []string{"-nope"}, 2},
		{"two paths", []string{"a.json", "b.json"}, 2},
		{"bad log level", []string{"-log-level", "loud", "a.json"}, 2},
		{"no input", nil, 1},
		{"missing file", []string{filepath.Join(t.TempDir(), "missing.json")}, 1},
		{"unknown format", []string{"doc.txt"}, 1},
		{"load without gallery", []string{"-load", "x"}, 1},
		{"bad formula", []string{"-formula", "A+B", writeDoc(t)}, 1},
		{"bad cell", []string{"-cell", "1", writeDoc(t)}, 1},
		{"bad expression", []string{"-expr", "nnz(", writeDoc(t)}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := invoke(tc.args...)
			assert.Equal(t, tc.code, code)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestMainUsesExitFunc(t *testing.T) {
	var codes []int
	old := exitFunc
	exitFunc = func(code int) { codes = append(codes, code) }
	defer func() { exitFunc = old }()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"matinspect", "-show", "-", writeDoc(t)}
	main()
	os.Args = []string{"matinspect"}
	main()
	assert.Equal(t, []int{0, 1}, codes)
}
