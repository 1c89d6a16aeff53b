package schedule

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/rcbeam/internal/checks"
	"github.com/alexiusacademia/rcbeam/internal/compliance"
	"github.com/alexiusacademia/rcbeam/internal/is456"
)

// Columns of a schedule sheet. Rows sharing a beam name are load cases of
// the same beam; geometry is taken from the first row of each beam.
var Columns = []string{
	"name", "width", "depth", "effective_depth", "cover",
	"flange_width", "flange_thickness", "fck", "fy",
	"span", "support", "exposure",
	"case", "moment", "shear", "axial",
}

var requiredColumns = []string{"name", "width", "depth", "effective_depth", "cover", "fck", "fy", "span", "case", "moment", "shear"}

// ReadXLSX reads the first sheet of a workbook. The first row holds the
// column names in any order.
func ReadXLSX(r io.Reader) ([]compliance.Request, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s has no beam rows", sheet)
	}

	index := map[string]int{}
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("sheet %s: missing column %q", sheet, c)
		}
	}

	var reqs []compliance.Request
	byName := map[string]int{}
	for i := 1; i < len(rows); i++ {
		row := rowReader{cells: rows[i], index: index, line: i + 1}
		name := row.text("name")
		if name == "" {
			continue
		}

		lc := is456.LoadCase{
			ID:     row.text("case"),
			Moment: row.number("moment"),
			Shear:  row.number("shear"),
			Axial:  row.number("axial"),
		}
		if row.err != nil {
			return nil, row.err
		}

		if k, ok := byName[name]; ok {
			reqs[k].Cases = append(reqs[k].Cases, lc)
			continue
		}

		req := compliance.Request{
			Name:     name,
			Span:     row.number("span"),
			Support:  checks.Support(row.text("support")),
			Exposure: checks.Exposure(row.text("exposure")),
			Cases:    []is456.LoadCase{lc},
		}
		req.Geometry.Width = row.number("width")
		req.Geometry.Depth = row.number("depth")
		req.Geometry.EffectiveDepth = row.number("effective_depth")
		req.Geometry.Cover = row.number("cover")
		req.Geometry.FlangeWidth = row.number("flange_width")
		req.Geometry.FlangeThickness = row.number("flange_thickness")
		req.Grades.Concrete = is456.ConcreteGrade(row.number("fck"))
		req.Grades.Steel = is456.SteelGrade(row.number("fy"))
		if row.err != nil {
			return nil, row.err
		}

		byName[name] = len(reqs)
		reqs = append(reqs, req)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("sheet %s has no beam rows", sheet)
	}
	return reqs, nil
}

// rowReader reads cells by column name and keeps the first parse error.
type rowReader struct {
	cells []string
	index map[string]int
	line  int
	err   error
}

func (r *rowReader) text(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// number parses a numeric cell; blank cells are zero.
func (r *rowReader) number(col string) float64 {
	s := r.text(col)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("row %d, column %s: %q is not a number", r.line, col, s)
	}
	return v
}

// summaryHeaders of the results sheet
var summaryHeaders = []string{
	"Beam", "Status", "Governing case", "Utilization", "Tension bars", "Compression bars", "Stirrups", "Reasons",
}

// WriteSummary writes one row per batch item to a new workbook.
func WriteSummary(w io.Writer, results []compliance.BatchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Results"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for i, h := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, res := range results {
		values := summaryRow(res)
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func summaryRow(res compliance.BatchResult) []interface{} {
	if res.Verdict == nil {
		return []interface{}{res.Name, "REJECTED", "", "", "", "", "", res.Error}
	}
	v := res.Verdict
	row := []interface{}{v.Name, string(v.Status), v.GoverningCase, roundTo(v.Utilization, 3), "", "", "", ""}
	if v.Tension != nil {
		row[4] = v.Tension.String()
	}
	if v.Compression != nil {
		row[5] = v.Compression.String()
	}
	if gc, ok := v.Case(v.GoverningCase); ok && gc.Shear.Safe {
		row[6] = fmt.Sprintf("%d-leg φ%g @ %g", gc.Shear.Legs, gc.Shear.Diameter, gc.Shear.Spacing)
	}
	var reasons []string
	for _, r := range v.Reasons {
		reasons = append(reasons, strings.TrimPrefix(r.Case+" "+r.Check+": "+r.Code, " "))
	}
	row[7] = strings.Join(reasons, "; ")
	return row
}

func roundTo(x float64, places int) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	return v
}
