package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/salescope/engine"
)

// ============================================================================
// RENDERING — Terminal tables and structured output
// ============================================================================

// renderTable prints display-ready table data with go-pretty.
func renderTable(w io.Writer, td *engine.TableData) {
	if td == nil {
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(td.Title)

	header := make(table.Row, len(td.Columns))
	configs := make([]table.ColumnConfig, len(td.Columns))
	for i, col := range td.Columns {
		header[i] = col.Label
		configs[i] = table.ColumnConfig{Number: i + 1, Align: alignFor(col.Align)}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range td.Rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	if td.Summary != nil {
		footer := make(table.Row, len(td.Columns))
		footer[0] = td.Summary.Label
		for i, col := range td.Columns {
			if v, ok := td.Summary.Values[col.Key]; ok {
				footer[i] = v
			}
		}
		tw.AppendFooter(footer)
	}

	tw.Render()
	fmt.Fprintln(w)
}

func alignFor(align string) text.Align {
	switch align {
	case "right":
		return text.AlignRight
	case "center":
		return text.AlignCenter
	default:
		return text.AlignLeft
	}
}

// renderStructured writes v as indented JSON or YAML.
func renderStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
