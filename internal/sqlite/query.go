package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

// QuerySQL runs a raw statement and returns its rows as driver values.
// No rows yields an empty, non-nil slice.
func (s *Store) QuerySQL(ctx context.Context, query string, args ...any) ([][]any, error) {
	conn, err := s.Conn(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("query", "sql", query)
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, types.EngineError("query", query, err)
	}
	defer rows.Close()
	out, err := scanAll(rows)
	if err != nil {
		return nil, types.EngineError("query", query, err)
	}
	return out, nil
}

func scanAll(rows *sql.Rows) ([][]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := [][]any{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, vals)
	}
	return out, rows.Err()
}

// Query selects from one table and returns records typed by the table's
// declared layout.
func (s *Store) Query(ctx context.Context, q types.QueryOptions) (*types.ResultSet, error) {
	schema, err := s.targetSchema(ctx, "query", q.Table)
	if err != nil {
		return nil, err
	}
	layout, err := selectLayout(q, schema)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(quoteIdents(layout.Names()), ", "), quoteIdent(q.Table))
	if q.Where != "" {
		b.WriteString(" WHERE " + q.Where)
	}
	if len(q.GroupBy) > 0 {
		b.WriteString(" GROUP BY " + strings.Join(quoteIdents(q.GroupBy), ", "))
	}
	if q.OrderBy != "" {
		b.WriteString(" ORDER BY " + q.OrderBy)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}

	raw, err := s.QuerySQL(ctx, b.String(), q.Args...)
	if err != nil {
		return nil, err
	}
	rs := &types.ResultSet{Layout: layout, Records: make([]types.Record, 0, len(raw))}
	for _, row := range raw {
		rec, err := fromStoreRow(row, layout)
		if err != nil {
			return nil, &types.StoreError{Op: "query", Name: q.Table, Err: err}
		}
		rs.Records = append(rs.Records, rec)
	}
	return rs, nil
}

func selectLayout(q types.QueryOptions, schema types.TableSchema) (types.Layout, error) {
	if len(q.Columns) == 0 || (len(q.Columns) == 1 && q.Columns[0] == "*") {
		return schema.Layout(), nil
	}
	layout := make(types.Layout, len(q.Columns))
	for i, name := range q.Columns {
		col, ok := schema.Lookup(name)
		if !ok {
			return nil, types.Errorf("query", q.Table+"."+name, types.ErrNotFound, "no such column")
		}
		layout[i] = types.Field{Name: col.Name, Tag: col.Tag}
	}
	return layout, nil
}
