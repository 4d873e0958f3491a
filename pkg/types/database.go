package types

import (
	"context"
	"io"
)

// Database is the typed record-store contract implemented by a backend.
// Every blocking call takes a context; a backend applies no timeouts of
// its own.
type Database interface {
	Open(ctx context.Context) error
	Close() error

	Tables(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, name string) (bool, error)
	Columns(ctx context.Context, table string) ([]string, error)
	Schema(ctx context.Context, table string) (TableSchema, error)
	DType(ctx context.Context, table string) (Layout, error)

	Create(ctx context.Context, name string, cols []ColumnDef, extra string) error
	Drop(ctx context.Context, name string) error
	CreateIndex(ctx context.Context, name string, unique bool) error
	Analyze(ctx context.Context, table string) error

	Insert(ctx context.Context, table string, data any, opts ...InsertOption) (int64, error)
	Update(ctx context.Context, table string, data any, conditions ...string) (int64, error)
	Delete(ctx context.Context, table, where string, args ...any) (int64, error)
	Query(ctx context.Context, q QueryOptions) (*ResultSet, error)
	QuerySQL(ctx context.Context, query string, args ...any) ([][]any, error)

	Size(ctx context.Context, name string) (int64, bool, error)
	Dump(ctx context.Context, w io.Writer, table string) error
	Restore(ctx context.Context, r io.Reader) error
}

// RegistryEntry maps a normalized key to a file path.
type RegistryEntry struct {
	Key      string `json:"key"`
	Filename string `json:"filename"`
}

// Registry is a keyed lookup of file paths. Keys are composite; parts are
// joined in order before storage.
type Registry interface {
	Add(ctx context.Context, key []string, path string) error
	Exists(ctx context.Context, key []string) (bool, error)
	Retrieve(ctx context.Context, key []string) (string, error)
	Search(ctx context.Context, key []string) ([]RegistryEntry, error)
	Delete(ctx context.Context, key []string, hard bool) error
	List(ctx context.Context) ([]RegistryEntry, error)
}
