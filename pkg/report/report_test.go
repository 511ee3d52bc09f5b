package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/strac/internal/analysis"
	"github.com/iwvelando/strac/pkg/strac"
	"github.com/xuri/excelize/v2"
)

func sweep(t *testing.T, in strac.StrategyInput) strac.Table {
	t.Helper()
	table, err := strac.Sweep(in)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	return table
}

func TestWriteStrategyWorkbook(t *testing.T) {
	in := strac.StrategyInput{MQ: 100, V: 5, Strategy: strac.QuantityBased, Start: 1, End: 4, Step: 1}
	table := sweep(t, in)

	var buf bytes.Buffer
	if err := WriteStrategyWorkbook(&buf, in, table); err != nil {
		t.Fatalf("WriteStrategyWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows(strategySheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("expected 7 rows (parameters run past the 4 data rows), got %d", len(rows))
	}
	if rows[0][0] != "P" || rows[0][3] != "Q" {
		t.Errorf("unexpected header %v", rows[0])
	}

	p, err := f.GetCellValue(strategySheet, "A5")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if p != "30" {
		t.Errorf("P for Q=4 = %q, expected 30", p)
	}

	strategy, err := f.GetCellValue(strategySheet, "J1")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if strategy != "QQ (Q-based)" {
		t.Errorf("strategy parameter = %q", strategy)
	}
}

func TestWriteStrategyWorkbookEmpty(t *testing.T) {
	in := strac.StrategyInput{MQ: 100, V: 5, Strategy: strac.PriceBased, Start: 10, End: 0, Step: 1}

	var buf bytes.Buffer
	if err := WriteStrategyWorkbook(&buf, in, sweep(t, in)); err != nil {
		t.Fatalf("WriteStrategyWorkbook() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected a workbook even without rows")
	}
}

func basicWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		row := row
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow() error = %v", err)
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	return &buf
}

func TestImportBasicWorkbook(t *testing.T) {
	buf := basicWorkbook(t, [][]interface{}{
		{"P", "V", "Q", "F", "G"},
		{10, 6, 5, 10, 10},
		{10, 6, "", 10, 10},
		{"", "", "", "", ""},
		{"ten", 6, 5, 10, 10},
		{0, 6, 5, 10},
	})

	results, warnings, err := ImportBasicWorkbook(buf)
	if err != nil {
		t.Fatalf("ImportBasicWorkbook() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "row 5") {
		t.Errorf("expected one warning for row 5, got %v", warnings)
	}

	if results[0].Result.MQ != 20 {
		t.Errorf("row 2 MQ = %v, expected 20", results[0].Result.MQ)
	}
	if results[1].Input.Q.Set || results[1].Result.Q != 5 {
		t.Errorf("row 3 should solve Q=5 from a blank cell, got %+v", results[1])
	}
	if results[2].Row != 6 || results[2].Ratios.VPercent.Defined {
		t.Errorf("row 6 should have undefined V%%, got %+v", results[2])
	}
	if results[2].Input.G.Set {
		t.Errorf("row 6 missing G cell should be unset")
	}
}

func TestImportBasicWorkbookStyledCells(t *testing.T) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	header := []interface{}{"P", "V", "Q", "F", "G"}
	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		t.Fatalf("SetSheetRow() error = %v", err)
	}
	row := []interface{}{10.25, 6, 5, 1500, 10}
	if err := f.SetSheetRow("Sheet1", "A2", &row); err != nil {
		t.Fatalf("SetSheetRow() error = %v", err)
	}

	// Display formats must not leak into the imported values.
	styles := []struct {
		cell   string
		numFmt int
	}{
		{"A2", 1}, // 0
		{"D2", 3}, // #,##0
	}
	for _, st := range styles {
		id, err := f.NewStyle(&excelize.Style{NumFmt: st.numFmt})
		if err != nil {
			t.Fatalf("NewStyle() error = %v", err)
		}
		if err := f.SetCellStyle("Sheet1", st.cell, st.cell, id); err != nil {
			t.Fatalf("SetCellStyle() error = %v", err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}

	results, warnings, err := ImportBasicWorkbook(&buf)
	if err != nil {
		t.Fatalf("ImportBasicWorkbook() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if got := results[0].Input.P.Value; got != 10.25 {
		t.Errorf("P = %v, expected 10.25", got)
	}
	if got := results[0].Input.F.Value; got != 1500 {
		t.Errorf("F = %v, expected 1500", got)
	}
}

func TestImportBasicWorkbookErrors(t *testing.T) {
	if _, _, err := ImportBasicWorkbook(strings.NewReader("not a workbook")); err == nil {
		t.Error("expected error for invalid workbook")
	}

	buf := basicWorkbook(t, [][]interface{}{{"P", "V", "Q", "F", "G"}})
	if _, _, err := ImportBasicWorkbook(buf); err == nil {
		t.Error("expected error for header-only sheet")
	}
}

func TestWritePDF(t *testing.T) {
	session := strac.NewSession()
	basic := analysis.NewBasicReport(strac.Input{P: strac.Some(10), V: strac.Some(6), Q: strac.None(), F: strac.Some(10), G: strac.Some(10)})
	session.Store(basic.Result)
	target, err := analysis.NewTargetReport(session, strac.Input{P: strac.Some(15)})
	if err != nil {
		t.Fatalf("NewTargetReport() error = %v", err)
	}
	strategy, err := analysis.NewStrategyReport(strac.StrategyInput{MQ: 100, V: 5, Strategy: strac.PriceBased, Start: 10, End: 50, Step: 5})
	if err != nil {
		t.Fatalf("NewStrategyReport() error = %v", err)
	}

	rep := &analysis.Report{
		Basic:      basic,
		Target:     target,
		Historical: analysis.NewHistoricalReport(strac.State{V: 5, Q: 2}, strac.State{V: 8, Q: 3}),
		Strategy:   strategy,
		Warnings:   []string{"sample warning"},
	}

	var buf bytes.Buffer
	meta := Meta{Title: "Quarterly review", Project: "Widgets", Author: "Finance", Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}
	if err := WritePDF(&buf, meta, rep); err != nil {
		t.Fatalf("WritePDF() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not look like a PDF")
	}
}

func TestWritePDFWithoutSections(t *testing.T) {
	rep := &analysis.Report{
		Target:   &analysis.TargetReport{Error: strac.ErrNoBaseline.Error()},
		Strategy: &analysis.StrategyReport{Input: strac.StrategyInput{Strategy: strac.PriceBased}, Error: strac.ErrZeroStep.Error()},
	}
	var buf bytes.Buffer
	if err := WritePDF(&buf, Meta{}, rep); err != nil {
		t.Fatalf("WritePDF() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected PDF output")
	}
}
