package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	insight "github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/common"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func checkFormat(format string) error {
	if format != formatTable && format != formatJSON {
		return fmt.Errorf("unsupported --format %q (use table or json)", format)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderDataset writes the rows of ds as a table, columns in summary order.
func renderDataset(w io.Writer, ds *insight.Dataset) {
	columns := ds.Columns()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	header := make(table.Row, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, row := range ds.Rows() {
		cells := make(table.Row, len(columns))
		for i, c := range columns {
			cells[i] = cell(row.Get(c))
		}
		t.AppendRow(cells)
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func cell(v insight.Value) string {
	if v.IsNull() {
		return "null"
	}
	return v.String()
}

func optional(f *float64) string {
	if f == nil {
		return "undefined"
	}
	return common.FormatNumber(*f)
}

func renderCorrelation(w io.Writer, res *insight.CorrelationResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Statistic", "Value"})
	t.AppendRows([]table.Row{
		{"x", res.XColumn},
		{"y", res.YColumn},
		{"pairs", res.NPairs},
		{"r", optional(res.Correlation)},
		{"slope", optional(res.Slope)},
		{"intercept", optional(res.Intercept)},
		{"x range", fmt.Sprintf("%s .. %s", common.FormatNumber(res.XMin), common.FormatNumber(res.XMax))},
		{"y range", fmt.Sprintf("%s .. %s", common.FormatNumber(res.YMin), common.FormatNumber(res.YMax))},
		{"sample", len(res.Sample)},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}

func renderMatrix(w io.Writer, pairs []insight.CorrelationPair) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"x", "y", "r", "pairs", "note"})
	for _, p := range pairs {
		if p.Err != nil {
			t.AppendRow(table.Row{p.X, p.Y, "undefined", 0, p.Err.Error()})
			continue
		}
		t.AppendRow(table.Row{p.X, p.Y, optional(p.Result.Correlation), p.Result.NPairs, ""})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func renderSummary(w io.Writer, summary *insight.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Column", "Kind", "Total", "Nulls", "Mean", "Median", "Std Dev", "Min", "Max", "Mode"})
	for _, c := range summary.Columns {
		mode := "null"
		if c.Mode != nil {
			mode = common.Stringify(c.Mode)
		}
		t.AppendRow(table.Row{
			c.Name, c.Kind.String(), c.TotalValues, c.NullValues,
			optional(c.Mean), optional(c.Median), optional(c.StdDev), optional(c.Min), optional(c.Max),
			mode,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
