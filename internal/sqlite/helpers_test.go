package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jeeves/internal/testutil"
	"github.com/mesh-intelligence/jeeves/pkg/types"
)

// newMemoryStore opens a private in-memory store closed at test end.
func newMemoryStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(types.Config{Path: types.MemoryPath}, WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, s.Open(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var obsColumns = []types.ColumnDef{
	{Name: "id", Type: "INTEGER"},
	{Name: "name", Type: "TEXT"},
	{Name: "flux", Type: "REAL"},
}

// newObsStore returns a store holding an empty obs(id, name, flux) table.
func newObsStore(t *testing.T) *Store {
	t.Helper()
	s := newMemoryStore(t)
	require.NoError(t, s.Create(context.Background(), "obs", obsColumns, ""))
	return s
}

func countRows(t *testing.T, s *Store, table string) int64 {
	t.Helper()
	rows, err := s.QuerySQL(context.Background(), "SELECT count(*) FROM "+quoteIdent(table))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	n, err := FromStore(rows[0][0], types.TagInteger)
	require.NoError(t, err)
	return n.(int64)
}
