// Package report writes dashboard pages as JSON, terminal tables or CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/spektr-org/insightedu/dashboard"
	"github.com/spektr-org/insightedu/engine"
)

// Format selects the output encoding.
type Format string

const (
	JSON   Format = "json"   // compact JSON
	Pretty Format = "pretty" // indented JSON
	Table  Format = "table"  // terminal tables with colored headings
	CSV    Format = "csv"    // one CSV block per section, Sheets-ready
)

// ParseFormat accepts json, pretty, table (or text) and csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "pretty":
		return Pretty, nil
	case "table", "text":
		return Table, nil
	case "csv":
		return CSV, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, pretty, table or csv)", s)
}

// Render writes page to w in the given format.
func Render(w io.Writer, page *dashboard.Page, f Format) error {
	if page == nil {
		return fmt.Errorf("render: nil page")
	}
	switch f {
	case JSON, Pretty:
		return writeJSON(w, page, f == Pretty)
	case Table:
		return writeTables(w, page)
	case CSV:
		return writeCSV(w, page)
	}
	return fmt.Errorf("render: unknown format %q", f)
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	var out []byte
	var err error

	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// ============================================================================
// TABLE OUTPUT
// ============================================================================

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	sectionColor = color.New(color.FgYellow)
)

func writeTables(w io.Writer, page *dashboard.Page) error {
	titleColor.Fprintf(w, "=== %s ===\n", page.Title)
	if len(page.Filters) > 0 {
		fmt.Fprintln(w, formatFilters(page.Filters))
	}

	sectionColor.Fprintln(w, "\nKey Metrics")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value", "Note"})
	for _, m := range page.Metrics {
		value := fmtNum(float64(m.Value))
		if m.Unit != "" && value != "" {
			value += " " + m.Unit
		}
		table.Append([]string{m.Label, value, m.Note})
	}
	table.Render()

	for _, c := range page.Charts {
		sectionColor.Fprintf(w, "\n%s\n", c.Title)
		headers, rows := chartRows(c)
		table := tablewriter.NewWriter(w)
		table.SetHeader(headers)
		table.AppendBulk(rows)
		table.Render()
	}

	for _, t := range page.Tables {
		sectionColor.Fprintf(w, "\n%s\n", t.Title)
		if len(t.Rows) == 0 {
			fmt.Fprintln(w, "(none)")
			continue
		}
		table := tablewriter.NewWriter(w)
		table.SetHeader(tableHeaders(t))
		table.AppendBulk(t.Rows)
		table.Render()
	}
	return nil
}

func formatFilters(filters map[string]string) string {
	parts := make([]string, 0, len(filters))
	for _, key := range []string{"state", "city", "from", "to", "granularity", "threshold"} {
		if v, ok := filters[key]; ok {
			parts = append(parts, key+"="+v)
		}
	}
	return "Filters: " + strings.Join(parts, ", ")
}

// ============================================================================
// CSV OUTPUT — every section as its own block, separated by a blank row
// ============================================================================

func writeCSV(w io.Writer, page *dashboard.Page) error {
	cw := csv.NewWriter(w)

	cw.Write([]string{page.Title})
	cw.Write([]string{"Metric", "Value", "Unit", "Note"})
	for _, m := range page.Metrics {
		cw.Write([]string{m.Label, fmtNum(float64(m.Value)), m.Unit, m.Note})
	}

	for _, c := range page.Charts {
		headers, rows := chartRows(c)
		cw.Write(nil)
		cw.Write([]string{c.Title})
		cw.Write(headers)
		cw.WriteAll(rows)
	}

	for _, t := range page.Tables {
		cw.Write(nil)
		cw.Write([]string{t.Title})
		cw.Write(tableHeaders(t))
		for _, row := range t.Rows {
			cw.Write(row)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ============================================================================
// HELPERS
// ============================================================================

// chartRows flattens a chart: single series → label + value, multi series →
// label + one column per series.
func chartRows(c engine.ChartConfig) ([]string, [][]string) {
	xLabel, yLabel := c.XAxis, c.YAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	if yLabel == "" {
		yLabel = "Value"
	}
	if len(c.Series) == 0 {
		return []string{xLabel, yLabel}, nil
	}

	if len(c.Series) == 1 {
		rows := make([][]string, 0, len(c.Series[0].Data))
		for _, d := range c.Series[0].Data {
			rows = append(rows, []string{d.Label, fmtNum(float64(d.Value))})
		}
		return []string{xLabel, yLabel}, rows
	}

	headers := []string{xLabel}
	if c.ChartType == "heatmap" {
		headers[0] = ""
	}
	for _, s := range c.Series {
		headers = append(headers, s.Name)
	}

	first := c.Series[0].Data
	rows := make([][]string, 0, len(first))
	if c.ChartType == "heatmap" {
		// series are matrix rows
		for _, s := range c.Series {
			row := []string{s.Name}
			for _, d := range s.Data {
				row = append(row, fmtNum(float64(d.Value)))
			}
			rows = append(rows, row)
		}
		return headers, rows
	}
	for i, d := range first {
		row := []string{d.Label}
		for _, s := range c.Series {
			if i < len(s.Data) {
				row = append(row, fmtNum(float64(s.Data[i].Value)))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func tableHeaders(t engine.TableData) []string {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Label
	}
	return headers
}

func fmtNum(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	// Whole numbers → no decimals, fractional → 2 decimals
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
