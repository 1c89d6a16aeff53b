package schedule

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/rcbeam/internal/checks"
	"github.com/alexiusacademia/rcbeam/internal/compliance"
	"github.com/alexiusacademia/rcbeam/internal/is456"
)

const yamlDoc = `
beams:
  - name: B1
    geometry: {width: 300, depth: 500, effective_depth: 450, cover: 30}
    grades: {fck: 25, fy: 415}
    span: 5000
    support: continuous
    cases:
      - {id: LC1, moment: 150, shear: 100}
      - {id: LC2, moment: -80, shear: 60}
  - name: B2
    geometry: {width: 230, depth: 450, effective_depth: 400, cover: 25}
    grades: {fck: 20, fy: 500}
    span: 4000
    cases:
      - {id: LC1, moment: 60, shear: 45}
`

const jsonList = `[
  {"name": "B1", "geometry": {"width": 300, "depth": 500, "effective_depth": 450, "cover": 30},
   "grades": {"fck": 25, "fy": 415}, "span": 5000,
   "cases": [{"id": "LC1", "moment": 150, "shear": 100}]}
]`

func TestRead_YAMLDocument(t *testing.T) {
	reqs, err := Read(strings.NewReader(yamlDoc), YAML)
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	b1 := reqs[0]
	assert.Equal(t, "B1", b1.Name)
	assert.Equal(t, 450.0, b1.Geometry.EffectiveDepth)
	assert.Equal(t, is456.Grades{Concrete: 25, Steel: 415}, b1.Grades)
	assert.Equal(t, checks.Continuous, b1.Support)
	require.Len(t, b1.Cases, 2)
	assert.Equal(t, -80.0, b1.Cases[1].Moment)

	assert.Equal(t, is456.SteelGrade(500), reqs[1].Grades.Steel)
}

func TestRead_YAMLList(t *testing.T) {
	list := `
- name: B1
  geometry: {width: 300, depth: 500, effective_depth: 450, cover: 30}
  grades: {fck: 25, fy: 415}
  span: 5000
  cases: [{id: LC1, moment: 150, shear: 100}]
`
	reqs, err := Read(strings.NewReader(list), YAML)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "LC1", reqs[0].Cases[0].ID)
}

func TestRead_JSON(t *testing.T) {
	reqs, err := Read(strings.NewReader(jsonList), JSON)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, 150.0, reqs[0].Cases[0].Moment)

	doc := `{"beams": ` + jsonList + `}`
	fromDoc, err := Read(strings.NewReader(doc), JSON)
	require.NoError(t, err)
	assert.Equal(t, reqs, fromDoc)
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(strings.NewReader("  \n"), YAML)
	assert.ErrorContains(t, err, "empty schedule")

	_, err = Read(strings.NewReader(`{"beams": []}`), JSON)
	assert.ErrorContains(t, err, "no beams")

	_, err = Read(strings.NewReader(`{"beams": [`), JSON)
	assert.ErrorContains(t, err, "decode json schedule")

	_, err = Read(strings.NewReader("a,b"), Format("csv"))
	assert.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{
		"beams.json": JSON,
		"beams.YAML": YAML,
		"beams.yml":  YAML,
		"beams.xlsx": XLSX,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatOf("beams.csv")
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "beams.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	reqs, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, reqs, 2)

	_, err = LoadFromFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

// workbook builds an in-memory schedule sheet.
func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestReadXLSX(t *testing.T) {
	header := []interface{}{"Name", "Width", "Depth", "Effective_Depth", "Cover", "fck", "fy", "Span", "Exposure", "Case", "Moment", "Shear"}
	buf := workbook(t, [][]interface{}{
		header,
		{"B1", 300, 500, 450, 30, 25, 415, 5000, "severe", "LC1", 150, 100},
		{"B1", 300, 500, 450, 30, 25, 415, 5000, "severe", "LC2", -80, 60},
		{""},
		{"B2", 230, 450, 400, 25, 20, 500, 4000, "", "LC1", 60, 45},
	})

	reqs, err := ReadXLSX(buf)
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	b1 := reqs[0]
	assert.Equal(t, "B1", b1.Name)
	assert.Equal(t, 300.0, b1.Geometry.Width)
	assert.Equal(t, is456.ConcreteGrade(25), b1.Grades.Concrete)
	assert.Equal(t, checks.Severe, b1.Exposure)
	require.Len(t, b1.Cases, 2)
	assert.Equal(t, "LC2", b1.Cases[1].ID)
	assert.Equal(t, -80.0, b1.Cases[1].Moment)
	assert.Zero(t, b1.Geometry.FlangeWidth)

	assert.Equal(t, "B2", reqs[1].Name)
	assert.Len(t, reqs[1].Cases, 1)
}

func TestReadXLSX_Errors(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"name", "width", "depth"},
		{"B1", 300, 500},
	})
	_, err := ReadXLSX(buf)
	assert.ErrorContains(t, err, "missing column")

	header := []interface{}{"name", "width", "depth", "effective_depth", "cover", "fck", "fy", "span", "case", "moment", "shear"}
	buf = workbook(t, [][]interface{}{
		header,
		{"B1", "wide", 500, 450, 30, 25, 415, 5000, "LC1", 150, 100},
	})
	_, err = ReadXLSX(buf)
	assert.ErrorContains(t, err, `row 2, column width: "wide" is not a number`)

	buf = workbook(t, [][]interface{}{header})
	_, err = ReadXLSX(buf)
	assert.ErrorContains(t, err, "no beam rows")

	_, err = ReadXLSX(strings.NewReader("not a workbook"))
	assert.ErrorContains(t, err, "open workbook")
}

func TestWriteSummary(t *testing.T) {
	reqs, err := Read(strings.NewReader(yamlDoc), YAML)
	require.NoError(t, err)
	reqs = append(reqs, compliance.Request{Name: "B3"})

	e := compliance.NewEngine(is456.DefaultTables(), compliance.DefaultOptions(), nil)
	results, err := e.EvaluateBatch(context.Background(), reqs, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, results))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, summaryHeaders, rows[0])

	assert.Equal(t, "B1", rows[1][0])
	assert.Equal(t, string(results[0].Verdict.Status), rows[1][1])
	assert.Equal(t, "LC1", rows[1][2])
	assert.Contains(t, rows[1][4], "φ")

	assert.Equal(t, "B3", rows[3][0])
	assert.Equal(t, "REJECTED", rows[3][1])
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 0.886, roundTo(0.88583, 3))
	assert.Equal(t, 1.0, roundTo(0.9996, 3))
}
