package sqlite

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

// Standardize normalizes any accepted input shape into row tuples plus the
// column names those tuples are aligned to. declared is the target table's
// column order.
//
// Columnar input uses its own names. Keyed input uses the first record's
// keys, ordered by declared position, and every record must carry the same
// keys. A single positional row must match the declared width; several
// positional rows are passed through unchecked and use the declared names.
func Standardize(data any, declared []string) ([][]any, []string, error) {
	switch d := data.(type) {
	case types.Columns:
		return standardizeColumns(d)
	case *types.Columns:
		if d == nil {
			break
		}
		return standardizeColumns(*d)
	case types.KeyedRecord:
		return standardizeKeyed([]map[string]any{d}, declared)
	case map[string]any:
		return standardizeKeyed([]map[string]any{d}, declared)
	case types.KeyedRecords:
		recs := make([]map[string]any, len(d))
		for i, r := range d {
			recs[i] = r
		}
		return standardizeKeyed(recs, declared)
	case []types.KeyedRecord:
		return Standardize(types.KeyedRecords(d), declared)
	case []map[string]any:
		return standardizeKeyed(d, declared)
	case types.PositionalRow:
		return standardizePositional([]any(d), declared)
	case []any:
		return standardizePositional(d, declared)
	case types.PositionalRows:
		return standardizeRows([][]any(d), declared)
	case [][]any:
		return standardizeRows(d, declared)
	}
	return nil, nil, fmt.Errorf("%w: %T", types.ErrUnsupportedInput, data)
}

func standardizeColumns(c types.Columns) ([][]any, []string, error) {
	if len(c.Names) == 0 {
		return nil, nil, fmt.Errorf("%w: columnar input has no columns", types.ErrUnsupportedInput)
	}
	if len(c.Names) != len(c.Values) {
		return nil, nil, fmt.Errorf("%w: %d column names for %d columns", types.ErrArity, len(c.Names), len(c.Values))
	}
	n := c.Rows()
	if n == 0 {
		return nil, nil, fmt.Errorf("%w: columnar input has no rows", types.ErrUnsupportedInput)
	}
	for i, col := range c.Values {
		if len(col) != n {
			return nil, nil, fmt.Errorf("%w: column %s has %d values, want %d", types.ErrArity, c.Names[i], len(col), n)
		}
	}
	rows := make([][]any, n)
	for r := range rows {
		row := make([]any, len(c.Values))
		for i, col := range c.Values {
			row[i] = col[r]
		}
		rows[r] = row
	}
	return rows, append([]string(nil), c.Names...), nil
}

func standardizeKeyed(recs []map[string]any, declared []string) ([][]any, []string, error) {
	if len(recs) == 0 || len(recs[0]) == 0 {
		return nil, nil, fmt.Errorf("%w: empty keyed input", types.ErrUnsupportedInput)
	}
	cols := orderKeys(recs[0], declared)

	rows := make([][]any, len(recs))
	for r, rec := range recs {
		if len(rec) != len(cols) {
			return nil, nil, fmt.Errorf("%w: record %d has %d keys, want %d", types.ErrArity, r, len(rec), len(cols))
		}
		row := make([]any, len(cols))
		for i, c := range cols {
			v, ok := rec[c]
			if !ok {
				return nil, nil, fmt.Errorf("%w: record %d lacks key %s", types.ErrArity, r, c)
			}
			row[i] = v
		}
		rows[r] = row
	}
	return rows, cols, nil
}

// orderKeys sorts a record's keys by declared column position, ignoring
// case. Undeclared keys follow in lexical order.
func orderKeys(rec map[string]any, declared []string) []string {
	pos := make(map[string]int, len(declared))
	for i, d := range declared {
		pos[strings.ToLower(d)] = i
	}
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(a, b int) bool {
		pa, oka := pos[strings.ToLower(keys[a])]
		pb, okb := pos[strings.ToLower(keys[b])]
		switch {
		case oka && okb:
			return pa < pb
		case oka != okb:
			return oka
		default:
			return keys[a] < keys[b]
		}
	})
	return keys
}

func standardizePositional(row []any, declared []string) ([][]any, []string, error) {
	if len(row) == 0 {
		return nil, nil, fmt.Errorf("%w: empty positional row", types.ErrUnsupportedInput)
	}
	if nested, ok := asRows(row); ok {
		return standardizeRows(nested, declared)
	}
	if len(row) != len(declared) {
		return nil, nil, fmt.Errorf("%w: row has %d values, table has %d columns", types.ErrArity, len(row), len(declared))
	}
	return [][]any{append([]any(nil), row...)}, append([]string(nil), declared...), nil
}

// asRows detects a sequence of sequences presented as []any.
func asRows(row []any) ([][]any, bool) {
	out := make([][]any, len(row))
	for i, v := range row {
		switch r := v.(type) {
		case []any:
			out[i] = r
		case types.PositionalRow:
			out[i] = r
		default:
			return nil, false
		}
	}
	return out, true
}

func standardizeRows(rows [][]any, declared []string) ([][]any, []string, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: no positional rows", types.ErrUnsupportedInput)
	}
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = append([]any(nil), r...)
	}
	return out, append([]string(nil), declared...), nil
}
