package sqlite

import (
	"context"
	"strings"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

const (
	sqlPageUsage       = `SELECT name, SUM(pgsize) FROM dbstat GROUP BY name`
	sqlObjectPageUsage = `SELECT name, SUM(pgsize) FROM dbstat WHERE name = ? GROUP BY name`
)

// bookkeeping objects left out of size totals.
var bookkeeping = map[string]bool{"sqlite_schema": true, "sqlite_master": true}

// Size returns the bytes of storage pages used by one catalog object, or
// by every object when name is empty. ok is false when the engine reports
// no page statistics, which is distinct from a size of zero.
func (s *Store) Size(ctx context.Context, name string) (size int64, ok bool, err error) {
	stmt, args := sqlPageUsage, []any(nil)
	if name != "" {
		stmt, args = sqlObjectPageUsage, []any{name}
	}
	rows, err := s.QuerySQL(ctx, stmt, args...)
	if err != nil {
		if strings.Contains(err.Error(), "no such table: dbstat") {
			s.logger.Debug("page statistics unavailable", "driver", s.cfg.Driver)
			return 0, false, nil
		}
		return 0, false, err
	}
	for _, row := range rows {
		label, _ := FromStore(row[0], types.TagText)
		obj, _ := label.(string)
		if bookkeeping[obj] {
			continue
		}
		n, err := FromStore(row[1], types.TagInteger)
		if err != nil {
			return 0, false, &types.StoreError{Op: "size", Name: obj, Err: err}
		}
		if n != nil {
			size += n.(int64)
		}
		ok = true
	}
	return size, ok, nil
}
