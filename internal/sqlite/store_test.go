package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jeeves/internal/testutil"
	"github.com/mesh-intelligence/jeeves/pkg/types"
)

func TestStore_OpenRequiresPath(t *testing.T) {
	s := NewStore(types.Config{})
	err := s.Open(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfiguration)
	assert.ErrorIs(t, err, types.ErrPathEmpty)

	var se *types.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "open", se.Op)
}

func TestStore_UnknownDriverIsConfigurationError(t *testing.T) {
	s := NewStore(types.Config{Path: types.MemoryPath, Driver: "postgres"})
	err := s.Open(context.Background())
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestStore_OpenCloseLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore(types.Config{Path: types.MemoryPath}, WithLogger(testutil.NewTestLogger(t)))

	// Closing a store that was never opened is a no-op.
	require.NoError(t, s.Close())

	require.NoError(t, s.Open(ctx))
	require.NoError(t, s.Open(ctx), "second open is a no-op")

	c1, err := s.Conn(ctx)
	require.NoError(t, err)
	c2, err := s.Conn(ctx)
	require.NoError(t, err)
	assert.Same(t, c1, c2, "cursor is created once")

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close is a no-op")

	// Reopen establishes a fresh connection.
	tables, err := s.Tables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)
	require.NoError(t, s.Close())
}

func TestStore_MemoryStoreIsOneDatabase(t *testing.T) {
	ctx := context.Background()
	s := newObsStore(t)

	for i := 0; i < 3; i++ {
		_, err := s.Insert(ctx, "obs", []any{i, "x", 1.0})
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), countRows(t, s, "obs"))
}

func TestStore_FilePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "survey.db")
	s := NewStore(types.Config{Path: path}, WithLogger(testutil.NewTestLogger(t)))

	require.NoError(t, s.Create(ctx, "obs", obsColumns, ""))
	_, err := s.Insert(ctx, "obs", types.KeyedRecord{"id": 1, "name": "a", "flux": 2.5})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened := NewStore(types.Config{Path: path})
	t.Cleanup(func() { _ = reopened.Close() })
	rs, err := reopened.Query(ctx, types.QueryOptions{Table: "obs"})
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())
	assert.Equal(t, types.Record{int64(1), "a", 2.5}, rs.Records[0])
}

func TestStore_Summary(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	got, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "<jeeves.Store [0 tables]> :memory:", got)

	require.NoError(t, s.Create(ctx, "obs", obsColumns, ""))
	got, err = s.Summary(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, "1 tables, ")
	assert.Equal(t, "jeeves.Store(:memory:)", s.String())
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStoreFromDB(db, WithLogger(testutil.NewTestLogger(t))), mock
}

func TestStore_EngineErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockStore(t)
	diskErr := errors.New("disk I/O error")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT sql FROM sqlite_master")).
		WithArgs("obs").
		WillReturnError(diskErr)

	_, err := s.Exists(ctx, "obs")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrEngine)
	assert.ErrorIs(t, err, diskErr)
	assert.Contains(t, err.Error(), `"obs"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InsertEngineErrorRollsBack(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockStore(t)
	uniqueErr := errors.New("UNIQUE constraint failed: obs.id")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT sql FROM sqlite_master")).
		WithArgs("obs").
		WillReturnRows(sqlmock.NewRows([]string{"sql"}).AddRow(`CREATE TABLE "obs" ("id" INTEGER, "name" TEXT)`))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "obs" ("id", "name") VALUES (?, ?)`)).
		WithArgs(int64(1), "a").
		WillReturnError(uniqueErr)
	mock.ExpectRollback()

	_, err := s.Insert(ctx, "obs", types.KeyedRecord{"id": 1, "name": "a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrEngine)
	assert.ErrorIs(t, err, uniqueErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_BlobInsertDoesNotSwallowEngineErrors(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockStore(t)
	fullErr := errors.New("database or disk is full")
	blobTable := sqlmock.NewRows([]string{"sql"}).AddRow(`CREATE TABLE "blobdata" ("name" TEXT, "blob" BLOB)`)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT sql FROM sqlite_master")).
		WithArgs("blobdata").
		WillReturnRows(blobTable)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT sql FROM sqlite_master")).
		WithArgs("blobdata").
		WillReturnRows(sqlmock.NewRows([]string{"sql"}).AddRow(`CREATE TABLE "blobdata" ("name" TEXT, "blob" BLOB)`))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "blobdata"`)).WillReturnError(fullErr)
	mock.ExpectRollback()

	key, err := s.InsertBlob(ctx, "", "frame-1", []byte{1, 2, 3})
	require.Error(t, err)
	assert.Empty(t, key)
	assert.ErrorIs(t, err, types.ErrEngine)
	assert.ErrorIs(t, err, fullErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
