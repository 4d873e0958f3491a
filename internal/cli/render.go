package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// renderRows writes rows as a table, or as JSON objects keyed by column.
func renderRows(w io.Writer, cols []string, rows [][]any, jsonMode bool) error {
	if jsonMode {
		out := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			m := make(map[string]any, len(cols))
			for i, c := range cols {
				m[c] = jsonValue(row[i])
			}
			out = append(out, m)
		}
		return renderJSON(w, out)
	}

	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = formatValue(v)
		}
		t.AppendRow(r)
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return fmt.Sprintf("<blob %s>", humanize.Bytes(uint64(len(x))))
	}
	return fmt.Sprintf("%v", v)
}

func jsonValue(v any) any {
	if b, ok := v.([]byte); ok {
		return formatValue(b)
	}
	return v
}

func formatSize(size int64, ok bool) string {
	if !ok {
		return "unknown"
	}
	return humanize.Bytes(uint64(size))
}
