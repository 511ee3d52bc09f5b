package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/iwvelando/strac/internal/analysis"
	"github.com/iwvelando/strac/pkg/format"
	"github.com/iwvelando/strac/pkg/strac"
	"github.com/phpdave11/gofpdf"
)

// Meta describes the document a report is rendered into.
type Meta struct {
	Title   string    `json:"title"`
	Project string    `json:"project"`
	Author  string    `json:"author"`
	Date    time.Time `json:"-"`
}

const (
	lineHeight = 6.0
	labelWidth = 30.0
	cellWidth  = 35.0
)

// WritePDF renders every section present in the report as a PDF document.
func WritePDF(w io.Writer, meta Meta, rep *analysis.Report) error {
	if meta.Title == "" {
		meta.Title = "STRAC Report"
	}
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(meta.Title, false)
	pdf.SetAuthor(meta.Author, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, meta.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	if meta.Project != "" {
		pdf.Cell(0, lineHeight, fmt.Sprintf("Project: %s", meta.Project))
		pdf.Ln(lineHeight)
	}
	if meta.Author != "" {
		pdf.Cell(0, lineHeight, fmt.Sprintf("Author: %s", meta.Author))
		pdf.Ln(lineHeight)
	}
	pdf.Cell(0, lineHeight, fmt.Sprintf("Date: %s", meta.Date.Format("2006-01-02")))
	pdf.Ln(10)

	for _, warning := range rep.Warnings {
		pdf.MultiCell(0, lineHeight, "Warning: "+warning, "", "L", false)
	}

	if b := rep.Basic; b != nil {
		heading(pdf, "Basic Calculation")
		r := b.Result
		table(pdf, []string{"", "Value", "", "Value", "", "Value"}, [][]string{
			{"P", format.Number(r.P), "PQ", format.Number(r.PQ), "V%", format.Percent(b.Ratios.VPercent)},
			{"V", format.Number(r.V), "VQ", format.Number(r.VQ), "FM", format.Percent(b.Ratios.FM)},
			{"M", format.Number(r.M), "MQ", format.Number(r.MQ), "Q0", format.Ratio(b.Ratios.Q0)},
			{"Q", format.Number(r.Q), "F", format.Number(r.F), "", ""},
			{"", "", "G", format.Number(r.G), "", ""},
		})
	}

	if t := rep.Target; t != nil {
		heading(pdf, "T-STRAC (Target Analysis)")
		if t.Result == nil {
			pdf.MultiCell(0, lineHeight, "Please run Basic Calculation first! ("+t.Error+")", "", "L", false)
		} else {
			res := t.Result
			rows := [][]string{}
			for _, f := range []struct {
				name                string
				base, target, delta float64
				pct                 strac.Ratio
			}{
				{"P", res.Baseline.P, res.Target.P, res.Delta.P, res.Percent.P},
				{"V", res.Baseline.V, res.Target.V, res.Delta.V, res.Percent.V},
				{"Q", res.Baseline.Q, res.Target.Q, res.Delta.Q, res.Percent.Q},
				{"F", res.Baseline.F, res.Target.F, res.Delta.F, res.Percent.F},
				{"G", res.Baseline.G, res.Target.G, res.Delta.G, res.Percent.G},
			} {
				rows = append(rows, []string{f.name, format.Number(f.base), format.Number(f.target),
					format.Number(f.delta), format.Percent(f.pct)})
			}
			table(pdf, []string{"", "Current", "Target", "Difference", "Change"}, rows)
		}
	}

	if h := rep.Historical; h != nil {
		heading(pdf, "H-STRAC (Historical Analysis)")
		d := h.Display
		table(pdf, []string{"", "Value", "", "Value"}, [][]string{
			{"PK", format.Number(d.PK), "PQK", format.Number(d.PQK)},
			{"VK", format.Number(d.VK), "VQK", format.Number(d.VQK)},
			{"MK", format.Number(d.MK), "MQK", format.Number(d.MQK)},
			{"QK", format.Number(d.QK), "FK", format.Number(d.FK)},
			{"", "", "GK", format.Number(d.GK)},
		})
	}

	if s := rep.Strategy; s != nil {
		heading(pdf, "MQ-Strategy "+s.Input.Strategy.String())
		if s.Table == nil {
			pdf.MultiCell(0, lineHeight, "Error: "+s.Error, "", "L", false)
		} else {
			if len(s.Table.Plot) > 1 {
				plot(pdf, *s.Table)
			}
			rows := make([][]string, 0, len(s.Table.Rows))
			for _, row := range s.Table.Rows {
				rows = append(rows, []string{format.Number(row.P), format.Number(row.V), format.Number(row.M),
					format.Number(row.Q), format.Number(row.PQ), format.Number(row.VQ), format.Number(row.MQ)})
			}
			table(pdf, []string{"P", "V", "M", "Q", "PQ", "VQ", "MQ"}, rows)
		}
	}

	return pdf.Output(w)
}

func heading(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
}

func table(pdf *gofpdf.Fpdf, header []string, rows [][]string) {
	width := func(i int) float64 {
		if len(header) > 6 {
			return 26
		}
		if i%2 == 0 && header[i] == "" {
			return labelWidth
		}
		return cellWidth
	}

	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range header {
		pdf.CellFormat(width(i), lineHeight, h, "B", 0, "R", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(width(i), lineHeight, cell, "", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// plot draws the strategy curve as a polyline inside a framed box.
func plot(pdf *gofpdf.Fpdf, table strac.Table) {
	const boxW, boxH = 170.0, 60.0
	left, _, _, _ := pdf.GetMargins()
	top := pdf.GetY() + 2

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, pt := range table.Plot {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	pdf.SetDrawColor(120, 120, 120)
	pdf.Rect(left, top, boxW, boxH, "D")
	pdf.SetDrawColor(31, 119, 180)
	pdf.SetLineWidth(0.5)
	for i := 1; i < len(table.Plot); i++ {
		a, b := table.Plot[i-1], table.Plot[i]
		pdf.Line(
			left+(a.X-minX)/spanX*boxW, top+boxH-(a.Y-minY)/spanY*boxH,
			left+(b.X-minX)/spanX*boxW, top+boxH-(b.Y-minY)/spanY*boxH,
		)
	}
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(0, 0, 0)

	pdf.SetY(top + boxH + 1)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(boxW/2, 4, fmt.Sprintf("%s: %s .. %s", table.XLabel, format.Number(minX), format.Number(maxX)), "", 0, "L", false, 0, "")
	pdf.CellFormat(boxW/2, 4, fmt.Sprintf("%s: %s .. %s", table.YLabel, format.Number(minY), format.Number(maxY)), "", 0, "R", false, 0, "")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
}
