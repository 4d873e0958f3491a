package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

// maxVariables bounds bound parameters per statement. 999 is the lowest
// limit any engine build ships with.
const maxVariables = 999

// targetSchema resolves a bare table name to its declared schema.
func (s *Store) targetSchema(ctx context.Context, op, table string) (types.TableSchema, error) {
	t, column, err := splitName(op, table)
	if err != nil {
		return nil, err
	}
	if column != "" {
		return nil, types.Errorf(op, table, types.ErrInvalidName, "only TABLE is supported")
	}
	schema, err := s.Schema(ctx, t)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, types.Errorf(op, table, types.ErrNotFound, "table does not exist")
	}
	return schema, nil
}

// bindRows checks every row's width against cols and converts each value
// for its column's tag. Columns without a declared type, or with only
// NUMERIC affinity, take any value.
func bindRows(op, table string, schema types.TableSchema, rows [][]any, cols []string) ([][]any, error) {
	tags := make([]types.Tag, len(cols))
	for i, c := range cols {
		if col, ok := schema.Lookup(c); ok && col.Type != "" {
			tags[i] = col.Tag
		}
	}
	out := make([][]any, len(rows))
	for r, row := range rows {
		if len(row) != len(cols) {
			return nil, types.Errorf(op, table, types.ErrArity, "row %d has %d values for %d columns", r, len(row), len(cols))
		}
		bound := make([]any, len(row))
		for i, v := range row {
			sv, err := CheckTag(v, tags[i])
			if err != nil {
				return nil, &types.StoreError{Op: op, Name: table, Err: fmt.Errorf("row %d column %s: %w", r, cols[i], err)}
			}
			bound[i] = sv
		}
		out[r] = bound
	}
	return out, nil
}

// conflictClauses returns the verb and trailing clause for a policy.
func conflictClauses(table string, c types.OnConflict, cols []string) (string, string, error) {
	switch c.Action {
	case types.ConflictNone:
		return "INSERT", "", nil
	case types.ConflictIgnore:
		return "INSERT OR IGNORE", "", nil
	case types.ConflictReplace:
		return "INSERT OR REPLACE", "", nil
	case types.ConflictDoNothing:
		return "INSERT", " ON CONFLICT DO NOTHING", nil
	case types.ConflictUpdate:
		if len(c.Target) == 0 {
			return "", "", types.Errorf("insert", table, types.ErrArity, "update on conflict needs the constraint columns")
		}
		var sets []string
		for _, col := range cols {
			if containsFold(c.Target, col) {
				continue
			}
			q := quoteIdent(col)
			sets = append(sets, q+" = excluded."+q)
		}
		target := strings.Join(quoteIdents(c.Target), ", ")
		if len(sets) == 0 {
			return "INSERT", " ON CONFLICT (" + target + ") DO NOTHING", nil
		}
		return "INSERT", " ON CONFLICT (" + target + ") DO UPDATE SET " + strings.Join(sets, ", "), nil
	}
	return "", "", types.Errorf("insert", table, types.ErrUnsupportedInput, "unknown conflict policy %q", c.Action)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// Insert standardizes data and writes it with parameterized multi-row
// inserts, all inside one transaction. It returns the rows affected.
func (s *Store) Insert(ctx context.Context, table string, data any, opts ...types.InsertOption) (int64, error) {
	var o types.InsertOptions
	for _, opt := range opts {
		opt(&o)
	}
	schema, err := s.targetSchema(ctx, "insert", table)
	if err != nil {
		return 0, err
	}
	rows, cols, err := Standardize(data, schema.Stored().Names())
	if err != nil {
		return 0, &types.StoreError{Op: "insert", Name: table, Err: err}
	}
	bound, err := bindRows("insert", table, schema, rows, cols)
	if err != nil {
		return 0, err
	}
	verb, suffix, err := conflictClauses(table, o.Conflict, cols)
	if err != nil {
		return 0, err
	}

	head := fmt.Sprintf("%s INTO %s (%s) VALUES ", verb, quoteIdent(table), strings.Join(quoteIdents(cols), ", "))
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	per := max(1, maxVariables/len(cols))

	var affected int64
	err = s.withTx(ctx, "insert", table, func(tx *sql.Tx) error {
		for start := 0; start < len(bound); start += per {
			chunk := bound[start:min(start+per, len(bound))]
			tuples := make([]string, len(chunk))
			args := make([]any, 0, len(chunk)*len(cols))
			for i, row := range chunk {
				tuples[i] = tuple
				args = append(args, row...)
			}
			stmt := head + strings.Join(tuples, ", ") + suffix
			s.logger.Debug("exec", "op", "insert", "table", table, "rows", len(chunk))
			res, err := tx.ExecContext(ctx, stmt, args...)
			if err != nil {
				return types.EngineError("insert", table, err)
			}
			n, _ := res.RowsAffected()
			affected += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// Update sets the standardized rows' values where the matching condition
// holds. One condition applies to every row; otherwise there must be one
// condition per row. All rows update in one transaction.
func (s *Store) Update(ctx context.Context, table string, data any, conditions ...string) (int64, error) {
	schema, err := s.targetSchema(ctx, "update", table)
	if err != nil {
		return 0, err
	}
	rows, cols, err := Standardize(data, schema.Stored().Names())
	if err != nil {
		return 0, &types.StoreError{Op: "update", Name: table, Err: err}
	}
	switch {
	case len(conditions) == 1:
		conds := make([]string, len(rows))
		for i := range conds {
			conds[i] = conditions[0]
		}
		conditions = conds
	case len(conditions) != len(rows):
		return 0, types.Errorf("update", table, types.ErrArity, "%d conditions for %d rows", len(conditions), len(rows))
	}
	for i, c := range conditions {
		if strings.TrimSpace(c) == "" {
			return 0, types.Errorf("update", table, types.ErrUnsupportedInput, "condition %d is empty", i)
		}
	}
	bound, err := bindRows("update", table, schema, rows, cols)
	if err != nil {
		return 0, err
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = quoteIdent(c) + " = ?"
	}
	head := fmt.Sprintf("UPDATE %s SET %s WHERE ", quoteIdent(table), strings.Join(sets, ", "))

	var affected int64
	err = s.withTx(ctx, "update", table, func(tx *sql.Tx) error {
		for i, row := range bound {
			stmt := head + conditions[i]
			s.logger.Debug("exec", "op", "update", "sql", stmt)
			res, err := tx.ExecContext(ctx, stmt, row...)
			if err != nil {
				return types.EngineError("update", table, err)
			}
			n, _ := res.RowsAffected()
			affected += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// Delete removes the rows matching where. An empty predicate is refused.
func (s *Store) Delete(ctx context.Context, table, where string, args ...any) (int64, error) {
	if strings.TrimSpace(where) == "" {
		return 0, types.Errorf("delete", table, types.ErrUnsupportedInput, "delete needs a condition")
	}
	if _, err := s.targetSchema(ctx, "delete", table); err != nil {
		return 0, err
	}
	res, err := s.exec(ctx, "delete", table, fmt.Sprintf("DELETE FROM %s WHERE %s", quoteIdent(table), where), args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
