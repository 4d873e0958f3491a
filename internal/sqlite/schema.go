package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

// Catalog queries. Names starting with sqlite_ are engine bookkeeping.
const (
	sqlListTables = `SELECT name FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\'`
	sqlTableText = `SELECT sql FROM sqlite_master
WHERE type = 'table' AND name = ? COLLATE NOCASE`
	sqlObjectExists = `SELECT count(*) FROM sqlite_master WHERE name = ? COLLATE NOCASE`
)

// splitName splits "table" or "table.column". More than one separator, or
// an empty part, is an invalid name.
func splitName(op, name string) (table, column string, err error) {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return "", "", types.Errorf(op, name, types.ErrInvalidName, "only TABLE or TABLE.COLUMN is supported")
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return "", "", types.Errorf(op, name, types.ErrInvalidName, "empty name part")
		}
	}
	if len(parts) == 2 {
		return parts[0], parts[1], nil
	}
	return parts[0], "", nil
}

// Tables lists user tables in catalog order. The result is empty, not nil,
// when the store has none.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	conn, err := s.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return listTables(ctx, conn)
}

func listTables(ctx context.Context, q execer) ([]string, error) {
	rows, err := q.QueryContext(ctx, sqlListTables)
	if err != nil {
		return nil, types.EngineError("tables", "", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, types.EngineError("tables", "", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, types.EngineError("tables", "", err)
	}
	return names, nil
}

// Exists reports whether a table, or a table.column, is declared. A column
// of a missing table is simply absent.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	table, column, err := splitName("exists", name)
	if err != nil {
		return false, err
	}
	schema, err := s.Schema(ctx, table)
	if err != nil {
		return false, err
	}
	if schema == nil {
		return false, nil
	}
	if column == "" {
		return true, nil
	}
	_, ok := schema.Lookup(column)
	return ok, nil
}

// Schema parses the table's stored declaration. A missing table yields a
// nil schema and no error.
func (s *Store) Schema(ctx context.Context, table string) (types.TableSchema, error) {
	conn, err := s.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return tableSchema(ctx, conn, table)
}

func tableSchema(ctx context.Context, q execer, table string) (types.TableSchema, error) {
	text, ok, err := tableText(ctx, q, table)
	if err != nil || !ok {
		return nil, err
	}
	schema, err := ParseCreateTable(text)
	if err != nil {
		return nil, &types.StoreError{Op: "schema", Name: table, Err: err}
	}
	return schema, nil
}

// tableText returns the verbatim creation text of a table.
func tableText(ctx context.Context, q execer, table string) (string, bool, error) {
	var text sql.NullString
	err := q.QueryRowContext(ctx, sqlTableText, table).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, types.EngineError("schema", table, err)
	}
	return text.String, true, nil
}

// Columns returns the declared column names, or nil for a missing table.
func (s *Store) Columns(ctx context.Context, table string) ([]string, error) {
	schema, err := s.Schema(ctx, table)
	if err != nil {
		return nil, err
	}
	return schema.Names(), nil
}

// DType returns the record layout of a table, or nil for a missing table.
func (s *Store) DType(ctx context.Context, table string) (types.Layout, error) {
	schema, err := s.Schema(ctx, table)
	if err != nil {
		return nil, err
	}
	return schema.Layout(), nil
}

// Describe lists "table" followed by "table.column" for each column, for
// one table or, when table is empty, for every table.
func (s *Store) Describe(ctx context.Context, table string) ([]string, error) {
	tables := []string{table}
	if table == "" {
		var err error
		if tables, err = s.Tables(ctx); err != nil {
			return nil, err
		}
	}
	out := []string{}
	for _, t := range tables {
		cols, err := s.Columns(ctx, t)
		if err != nil {
			return nil, err
		}
		if cols == nil {
			continue
		}
		out = append(out, t)
		for _, c := range cols {
			out = append(out, t+"."+c)
		}
	}
	return out, nil
}

// objectExists reports whether any catalog object carries name.
func objectExists(ctx context.Context, q execer, name string) (bool, error) {
	var n int
	if err := q.QueryRowContext(ctx, sqlObjectExists, name).Scan(&n); err != nil {
		return false, types.EngineError("catalog", name, err)
	}
	return n > 0, nil
}
