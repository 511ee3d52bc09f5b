// Package output provides utilities for formatting and displaying analysis results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/strac/internal/analysis"
	"github.com/iwvelando/strac/pkg/strac"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(report *analysis.Report) {
	WritePretty(os.Stdout, report)
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(report *analysis.Report) {
	_, _ = io.WriteString(os.Stdout, CsvString(report))
}

// JSONFormat outputs the report as indented JSON.
func JSONFormat(report *analysis.Report) error {
	return WriteJSON(os.Stdout, report)
}

// WriteJSON encodes the report as indented JSON.
func WriteJSON(w io.Writer, report *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WritePretty writes every section of the report as aligned tables.
func WritePretty(w io.Writer, report *analysis.Report) {
	p := message.NewPrinter(language.English)
	num := func(v float64) string { return p.Sprintf("%.1f", v) }
	ratio := func(r strac.Ratio, suffix string) string {
		if !r.Defined {
			return r.String()
		}
		return num(r.Value) + suffix
	}

	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	if len(report.Warnings) > 0 {
		fmt.Fprintf(w, "\n")
	}

	if b := report.Basic; b != nil {
		r := b.Result
		fmt.Fprintf(w, "--- Basic Calculation ---\n")
		fmt.Fprintf(w, "Primary Values | Products       | Ratios\n")
		fmt.Fprintf(w, "______________ | ______________ | ______\n")
		rows := [][3]string{
			{"P  " + num(r.P), "PQ " + num(r.PQ), "V% " + ratio(b.Ratios.VPercent, "%")},
			{"V  " + num(r.V), "VQ " + num(r.VQ), "FM " + ratio(b.Ratios.FM, "%")},
			{"M  " + num(r.M), "MQ " + num(r.MQ), "Q0 " + ratio(b.Ratios.Q0, "")},
			{"Q  " + num(r.Q), "F  " + num(r.F), ""},
			{"", "G  " + num(r.G), ""},
		}
		for _, row := range rows {
			fmt.Fprintf(w, "%-14s | %-14s | %s\n", row[0], row[1], row[2])
		}
		fmt.Fprintf(w, "\n")
	}

	if t := report.Target; t != nil {
		fmt.Fprintf(w, "--- T-STRAC (Target Analysis) ---\n")
		if t.Result == nil {
			fmt.Fprintf(w, "Please run Basic Calculation first! (%s)\n\n", t.Error)
		} else {
			res := t.Result
			fmt.Fprintf(w, "Field | Target | Difference | Change\n")
			fmt.Fprintf(w, "_____ | ______ | __________ | ______\n")
			for _, f := range targetFields(res) {
				fmt.Fprintf(w, "%-5s | %s | %s | %s\n", f.name, num(f.target), num(f.delta), ratio(f.pct, "%"))
			}
			fmt.Fprintf(w, "\n")
		}
	}

	if h := report.Historical; h != nil {
		d := h.Display
		fmt.Fprintf(w, "--- H-STRAC (Historical Analysis) ---\n")
		for _, kv := range historicalFields(d) {
			fmt.Fprintf(w, "%-3s | %s\n", kv.name, num(kv.value))
		}
		fmt.Fprintf(w, "\n")
	}

	if s := report.Strategy; s != nil {
		fmt.Fprintf(w, "--- MQ-Strategy %s ---\n", s.Input.Strategy)
		if s.Table == nil {
			fmt.Fprintf(w, "error: %s\n", s.Error)
			return
		}
		fmt.Fprintf(w, "%10s %10s %10s %10s %12s %12s %12s\n", "P", "V", "M", "Q", "PQ", "VQ", "MQ")
		for _, row := range s.Table.Rows {
			fmt.Fprintf(w, "%10s %10s %10s %10s %12s %12s %12s\n",
				num(row.P), num(row.V), num(row.M), num(row.Q), num(row.PQ), num(row.VQ), num(row.MQ))
		}
		if s.Table.Truncated {
			fmt.Fprintf(w, "(stopped after %d rows)\n", strac.MaxSweepRows)
		}
	}
}

// CsvString returns the report as CSV: one section per mode, each with a
// header row. Every record is padded to the widest section so that the
// output has a fixed number of fields.
func CsvString(report *analysis.Report) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	r := func(v strac.Ratio) string {
		if !v.Defined {
			return v.String()
		}
		return f(v.Value)
	}

	var records [][]string
	write := func(fields ...string) {
		records = append(records, fields)
	}

	if b := report.Basic; b != nil {
		res := b.Result
		write("section", "P", "V", "Q", "F", "G", "M", "PQ", "VQ", "MQ", "V%", "FM", "Q0")
		write("basic", f(res.P), f(res.V), f(res.Q), f(res.F), f(res.G), f(res.M),
			f(res.PQ), f(res.VQ), f(res.MQ), r(b.Ratios.VPercent), r(b.Ratios.FM), r(b.Ratios.Q0))
	}

	if t := report.Target; t != nil && t.Result != nil {
		write("section", "field", "target", "difference", "percent")
		for _, field := range targetFields(t.Result) {
			write("target", field.name, f(field.target), f(field.delta), r(field.pct))
		}
	}

	if h := report.Historical; h != nil {
		write("section", "metric", "value")
		for _, kv := range historicalFields(h.Display) {
			write("historical", kv.name, f(kv.value))
		}
	}

	if s := report.Strategy; s != nil && s.Table != nil {
		write("section", "P", "V", "M", "Q", "PQ", "VQ", "MQ")
		for _, row := range s.Table.Rows {
			write("strategy", f(row.P), f(row.V), f(row.M), f(row.Q), f(row.PQ), f(row.VQ), f(row.MQ))
		}
	}

	width := 0
	for _, record := range records {
		if len(record) > width {
			width = len(record)
		}
	}
	for i, record := range records {
		for len(record) < width {
			record = append(record, "")
		}
		records[i] = record
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.WriteAll(records)
	return sb.String()
}

type targetField struct {
	name          string
	target, delta float64
	pct           strac.Ratio
}

func targetFields(res *strac.TargetResult) []targetField {
	return []targetField{
		{"P", res.Target.P, res.Delta.P, res.Percent.P},
		{"V", res.Target.V, res.Delta.V, res.Percent.V},
		{"Q", res.Target.Q, res.Delta.Q, res.Percent.Q},
		{"F", res.Target.F, res.Delta.F, res.Percent.F},
		{"G", res.Target.G, res.Delta.G, res.Percent.G},
	}
}

type namedValue struct {
	name  string
	value float64
}

// historicalFields lists the K metrics in display order.
func historicalFields(h strac.HistoricalResult) []namedValue {
	return []namedValue{
		{"PK", h.PK}, {"VK", h.VK}, {"MK", h.MK}, {"QK", h.QK},
		{"PQK", h.PQK}, {"VQK", h.VQK}, {"MQK", h.MQK}, {"FK", h.FK}, {"GK", h.GK},
	}
}
