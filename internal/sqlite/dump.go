package sqlite

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

const (
	sqlDumpTables = `SELECT name, sql FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\'`
	sqlDumpTable = `SELECT name, sql FROM sqlite_master
WHERE type = 'table' AND name = ? COLLATE NOCASE`
)

// Framing markers of a dump.
const (
	dumpBegin  = "BEGIN TRANSACTION;"
	dumpCommit = "COMMIT;"
)

type dumpTarget struct {
	name string
	sql  string
}

// Dump writes a replayable text dump of one table, or of every table when
// table is empty. Each table's creation text is written verbatim and each
// row as an INSERT whose values are quoted by the engine itself.
func (s *Store) Dump(ctx context.Context, w io.Writer, table string) error {
	targets, err := s.dumpTargets(ctx, table)
	if err != nil {
		return err
	}
	conn, err := s.Conn(ctx)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, dumpBegin)
	for _, t := range targets {
		fmt.Fprintf(bw, "%s;\n", t.sql)
		schema, err := ParseCreateTable(t.sql)
		if err != nil {
			return &types.StoreError{Op: "dump", Name: t.name, Err: err}
		}
		stored := schema.Stored()
		quoted := make([]string, len(stored))
		for i, c := range stored {
			quoted[i] = "quote(" + quoteIdent(c.Name) + ")"
		}
		stmt := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), quoteIdent(t.name))
		rows, err := conn.QueryContext(ctx, stmt)
		if err != nil {
			return types.EngineError("dump", t.name, err)
		}
		vals, err := scanAll(rows)
		rows.Close()
		if err != nil {
			return types.EngineError("dump", t.name, err)
		}
		prefix := "INSERT INTO " + quoteIdent(t.name) + " VALUES("
		if len(stored) < len(schema) {
			names := strings.Join(quoteIdents(stored.Names()), ",")
			prefix = "INSERT INTO " + quoteIdent(t.name) + "(" + names + ") VALUES("
		}
		for _, row := range vals {
			lits := make([]string, len(row))
			for i, v := range row {
				lit, err := FromStore(v, types.TagText)
				if err != nil {
					return &types.StoreError{Op: "dump", Name: t.name, Err: err}
				}
				lits[i], _ = lit.(string)
			}
			fmt.Fprintf(bw, "%s%s);\n", prefix, strings.Join(lits, ","))
		}
	}
	fmt.Fprintln(bw, dumpCommit)
	if err := bw.Flush(); err != nil {
		return &types.StoreError{Op: "dump", Name: table, Err: err}
	}
	return nil
}

func (s *Store) dumpTargets(ctx context.Context, table string) ([]dumpTarget, error) {
	conn, err := s.Conn(ctx)
	if err != nil {
		return nil, err
	}
	stmt, args := sqlDumpTables, []any(nil)
	if table != "" {
		if _, _, err := splitName("dump", table); err != nil {
			return nil, err
		}
		stmt, args = sqlDumpTable, []any{table}
	}
	rows, err := conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, types.EngineError("dump", table, err)
	}
	defer rows.Close()

	var targets []dumpTarget
	for rows.Next() {
		var t dumpTarget
		if err := rows.Scan(&t.name, &t.sql); err != nil {
			return nil, types.EngineError("dump", table, err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, types.EngineError("dump", table, err)
	}
	if table != "" && len(targets) == 0 {
		return nil, types.Errorf("dump", table, types.ErrNotFound, "table does not exist")
	}
	return targets, nil
}

// Restore replays a dump inside a single transaction. The dump's own
// framing markers are dropped; any failing statement rolls the whole
// replay back.
func (s *Store) Restore(ctx context.Context, r io.Reader) error {
	text, err := io.ReadAll(r)
	if err != nil {
		return &types.StoreError{Op: "restore", Err: err}
	}
	stmts := SplitStatements(string(text))

	start := time.Now()
	err = s.withTx(ctx, "restore", "", func(tx *sql.Tx) error {
		n := 0
		for i, stmt := range stmts {
			if isFramingMarker(stmt) {
				continue
			}
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return types.EngineError("restore", fmt.Sprintf("statement %d", i+1), err)
			}
			n++
		}
		s.logger.Info("dump restored", "statements", n, "elapsed", time.Since(start))
		return nil
	})
	return err
}

func isFramingMarker(stmt string) bool {
	s := strings.ToUpper(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(stmt), ";")))
	switch s {
	case "BEGIN", "BEGIN TRANSACTION", "BEGIN DEFERRED TRANSACTION", "BEGIN IMMEDIATE TRANSACTION",
		"COMMIT", "COMMIT TRANSACTION", "END", "END TRANSACTION":
		return true
	}
	return false
}

// SplitStatements splits SQL text into complete statements, each ending
// in a semicolon. Semicolons inside quotes, comments, and trigger bodies
// do not split. Trailing text without a semicolon is kept as a final
// statement.
func SplitStatements(text string) []string {
	var (
		stmts []string
		cur   strings.Builder
		quote byte
	)
	flush := func() {
		if st := strings.TrimSpace(cur.String()); st != "" {
			stmts = append(stmts, st)
		}
		cur.Reset()
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
			cur.WriteByte(c)
		case c == '[':
			quote = ']'
			cur.WriteByte(c)
		case c == '-' && i+1 < len(text) && text[i+1] == '-':
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				i = len(text)
			} else {
				i += end
				cur.WriteByte('\n')
			}
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				i = len(text)
			} else {
				i += end + 3
			}
			cur.WriteByte(' ')
		case c == ';':
			cur.WriteByte(c)
			if !insideTriggerBody(cur.String()) {
				flush()
			}
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return stmts
}

// insideTriggerBody reports whether stmt is a CREATE TRIGGER whose body
// has not reached its closing END yet.
func insideTriggerBody(stmt string) bool {
	fields := strings.Fields(strings.ToUpper(stmt))
	if len(fields) < 2 || fields[0] != "CREATE" {
		return false
	}
	kw := fields[1]
	if (kw == "TEMP" || kw == "TEMPORARY") && len(fields) > 2 {
		kw = fields[2]
	}
	if kw != "TRIGGER" {
		return false
	}
	last := strings.TrimSuffix(fields[len(fields)-1], ";")
	return last != "END"
}
