// Package report exports analysis results as spreadsheets and PDF documents
// and imports batches of basic calculations from spreadsheets.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/strac/pkg/strac"
	"github.com/xuri/excelize/v2"
)

const strategySheet = "MQ-Strategy"

var strategyHeader = []interface{}{"P", "V", "M", "Q", "PQ", "VQ", "MQ"}

// column letters of the swept and plotted variables in strategyHeader
var strategyColumns = map[string]string{"P": "A", "Q": "D"}

// WriteStrategyWorkbook writes the sweep table to an .xlsx workbook with a
// line chart of the strategy curve.
func WriteStrategyWorkbook(w io.Writer, in strac.StrategyInput, table strac.Table) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", strategySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(strategySheet, "A1", &strategyHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.P, row.V, row.M, row.Q, row.PQ, row.VQ, row.MQ}
		if err := f.SetSheetRow(strategySheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	params := [][]interface{}{
		{"Strategy", in.Strategy.String()},
		{"MQ", in.MQ},
		{"V", in.V},
		{"Start", in.Start},
		{"End", in.End},
		{"Step", in.Step},
		{"Rows", len(table.Rows)},
	}
	for i, param := range params {
		cell, err := excelize.CoordinatesToCellName(9, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(strategySheet, cell, &param); err != nil {
			return fmt.Errorf("failed to write parameters: %w", err)
		}
	}

	if len(table.Rows) > 0 {
		if err := addStrategyChart(f, table); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func addStrategyChart(f *excelize.File, table strac.Table) error {
	last := len(table.Rows) + 1
	xCol, yCol := strategyColumns[table.XLabel], strategyColumns[table.YLabel]
	series := excelize.ChartSeries{
		Name:       fmt.Sprintf("'%s'!$%s$1", strategySheet, yCol),
		Categories: fmt.Sprintf("'%s'!$%s$2:$%s$%d", strategySheet, xCol, xCol, last),
		Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", strategySheet, yCol, yCol, last),
	}
	chart := &excelize.Chart{
		Type:   excelize.Line,
		Series: []excelize.ChartSeries{series},
		Title:  []excelize.RichTextRun{{Text: fmt.Sprintf("%s vs %s", table.YLabel, table.XLabel)}},
	}
	if err := f.AddChart(strategySheet, "I10", chart); err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}
	return nil
}

// ImportedRow is one row of a basic calculation batch.
type ImportedRow struct {
	Row    int          `json:"row"`
	Input  strac.Input  `json:"input"`
	Result strac.Result `json:"result"`
	Ratios strac.Ratios `json:"ratios"`
}

// ImportBasicWorkbook reads P, V, Q, F, G columns from the first sheet of an
// .xlsx workbook, skipping the header row, and runs a Basic Calculation for
// each row. Blank cells are unset. Rows that cannot be parsed are returned as
// warnings.
func ImportBasicWorkbook(r io.Reader) ([]ImportedRow, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	var results []ImportedRow
	var warnings []string
	for i := 1; i < len(rows); i++ {
		if blankRow(rows[i]) {
			continue
		}
		in, err := parseBasicRow(rows[i])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result := strac.Calculate(in)
		results = append(results, ImportedRow{Row: i + 1, Input: in, Result: result, Ratios: result.Ratios()})
	}
	return results, warnings, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseBasicRow(row []string) (strac.Input, error) {
	values := make([]strac.Optional, 5)
	for i := range values {
		if i >= len(row) || strings.TrimSpace(row[i]) == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return strac.Input{}, fmt.Errorf("column %s: %q is not a number", basicColumnName(i), row[i])
		}
		values[i] = strac.Some(v)
	}
	return strac.Input{P: values[0], V: values[1], Q: values[2], F: values[3], G: values[4]}, nil
}

func basicColumnName(i int) string {
	return []string{"P", "V", "Q", "F", "G"}[i]
}
