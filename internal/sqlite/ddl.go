package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

// quoteIdent quotes an identifier for use in generated statements.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteIdents(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quoteIdent(n)
	}
	return out
}

func columnClause(name string, def types.ColumnDef) string {
	clause := quoteIdent(name)
	if def.Type != "" {
		clause += " " + def.Type
	}
	if def.Modifier != "" {
		clause += " " + def.Modifier
	}
	return clause
}

// IndexName is the canonical name of the index on table.column.
func IndexName(table, column string) string {
	return "idx_" + column + "_" + table
}

// Create makes a table from cols. extra is appended verbatim: a table
// constraint goes inside the column list, anything else such as
// WITHOUT ROWID follows it. For "table.column" it adds that one column, typed by
// cols[0], to an existing table.
func (s *Store) Create(ctx context.Context, name string, cols []types.ColumnDef, extra string) error {
	table, column, err := splitName("create", name)
	if err != nil {
		return err
	}

	if column != "" {
		if len(cols) != 1 {
			return types.Errorf("create", name, types.ErrArity, "adding a column takes one definition, got %d", len(cols))
		}
		ok, err := s.Exists(ctx, table)
		if err != nil {
			return err
		}
		if !ok {
			return types.Errorf("create", table, types.ErrNotFound, "table does not exist")
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", quoteIdent(table), columnClause(column, cols[0]))
		_, err = s.exec(ctx, "create", name, stmt)
		return err
	}

	if len(cols) == 0 {
		return types.Errorf("create", name, types.ErrArity, "table needs at least one column")
	}
	defs := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		if strings.TrimSpace(c.Name) == "" {
			return types.Errorf("create", name, types.ErrInvalidName, "empty column name")
		}
		defs = append(defs, columnClause(c.Name, c))
	}
	var options string
	if extra = strings.TrimSpace(extra); extra != "" {
		if isTableConstraint(extra) {
			defs = append(defs, extra)
		} else {
			options = " " + extra
		}
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (%s)%s", quoteIdent(table), strings.Join(defs, ", "), options)
	_, err = s.exec(ctx, "create", name, stmt)
	return err
}

// Drop removes a table, or a single column for "table.column".
func (s *Store) Drop(ctx context.Context, name string) error {
	table, column, err := splitName("drop", name)
	if err != nil {
		return err
	}
	ok, err := s.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return types.Errorf("drop", name, types.ErrNotFound, "")
	}

	stmt := "DROP TABLE " + quoteIdent(table)
	if column != "" {
		stmt = fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", quoteIdent(table), quoteIdent(column))
	}
	_, err = s.exec(ctx, "drop", name, stmt)
	return err
}

// CreateIndex indexes "table.column" under its canonical name. An index
// that already exists is left alone, so repeated calls are safe.
func (s *Store) CreateIndex(ctx context.Context, name string, unique bool) error {
	table, column, err := splitName("index", name)
	if err != nil {
		return err
	}
	if column == "" {
		return types.Errorf("index", name, types.ErrInvalidName, "only TABLE.COLUMN is supported")
	}
	ok, err := s.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return types.Errorf("index", name, types.ErrNotFound, "")
	}

	conn, err := s.Conn(ctx)
	if err != nil {
		return err
	}
	idx := IndexName(table, column)
	present, err := objectExists(ctx, conn, idx)
	if err != nil {
		return err
	}
	if present {
		s.logger.Info("index already exists", "index", idx)
		return nil
	}

	kind := "INDEX"
	if unique {
		kind = "UNIQUE INDEX"
	}
	stmt := fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)", kind, quoteIdent(idx), quoteIdent(table), quoteIdent(column))
	start := time.Now()
	if _, err := s.exec(ctx, "index", name, stmt); err != nil {
		return err
	}
	s.logger.Info("index created", "index", idx, "unique", unique, "elapsed", time.Since(start))
	return nil
}

// Analyze refreshes the engine's planner statistics for a table.
func (s *Store) Analyze(ctx context.Context, table string) error {
	t, column, err := splitName("analyze", table)
	if err != nil {
		return err
	}
	if column != "" {
		return types.Errorf("analyze", table, types.ErrInvalidName, "only TABLE is supported")
	}
	ok, err := s.Exists(ctx, t)
	if err != nil {
		return err
	}
	if !ok {
		return types.Errorf("analyze", t, types.ErrNotFound, "")
	}
	start := time.Now()
	if _, err := s.exec(ctx, "analyze", t, "ANALYZE "+quoteIdent(t)); err != nil {
		return err
	}
	s.logger.Info("table analyzed", "table", t, "elapsed", time.Since(start))
	return nil
}
