package sqlite

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

// DefaultBlobTable holds named binary payloads as (name TEXT, blob BLOB).
const DefaultBlobTable = "blobdata"

func newBlobKey() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ensureBlobTable creates the blob table when it is missing.
func (s *Store) ensureBlobTable(ctx context.Context, table string) error {
	ok, err := s.Exists(ctx, table)
	if err != nil || ok {
		return err
	}
	return s.Create(ctx, table, []types.ColumnDef{
		{Name: "name", Type: "TEXT"},
		{Name: "blob", Type: "BLOB"},
	}, "")
}

// InsertBlob stores data under key, generating a UUID v7 key when key is
// empty, and returns the key used. Engine errors are always returned.
func (s *Store) InsertBlob(ctx context.Context, table, key string, data []byte) (string, error) {
	if table == "" {
		table = DefaultBlobTable
	}
	if key == "" {
		key = newBlobKey()
	}
	if err := s.ensureBlobTable(ctx, table); err != nil {
		return "", err
	}
	if data == nil {
		data = []byte{}
	}
	if _, err := s.Insert(ctx, table, types.KeyedRecord{"name": key, "blob": data}); err != nil {
		return "", err
	}
	return key, nil
}

// InsertBlobFile stores the contents of path under key.
func (s *Store) InsertBlobFile(ctx context.Context, table, key, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &types.StoreError{Op: "insert blob", Name: path, Err: err}
	}
	return s.InsertBlob(ctx, table, key, data)
}

// GetBlob returns the payload stored under key.
func (s *Store) GetBlob(ctx context.Context, table, key string) ([]byte, error) {
	if table == "" {
		table = DefaultBlobTable
	}
	rs, err := s.Query(ctx, types.QueryOptions{
		Table:   table,
		Columns: []string{"blob"},
		Where:   `"name" = ?`,
		Args:    []any{key},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if rs.Len() == 0 {
		return nil, types.Errorf("get blob", key, types.ErrNotFound, "")
	}
	data, _ := rs.Records[0][0].([]byte)
	return data, nil
}

// WriteBlobFile writes the payload stored under key to path.
func (s *Store) WriteBlobFile(ctx context.Context, table, key, path string) error {
	data, err := s.GetBlob(ctx, table, key)
	if err != nil {
		return err
	}
	err = writeAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return &types.StoreError{Op: "write blob", Name: path, Err: err}
	}
	return nil
}

// WriteTable creates table from the column types of c when it does not
// exist yet, then inserts every row of c.
func (s *Store) WriteTable(ctx context.Context, table string, c types.Columns) (int64, error) {
	ok, err := s.Exists(ctx, table)
	if err != nil {
		return 0, err
	}
	if !ok {
		defs, err := inferColumns(table, c)
		if err != nil {
			return 0, err
		}
		if err := s.Create(ctx, table, defs, ""); err != nil {
			return 0, err
		}
	}
	return s.Insert(ctx, table, c)
}

// inferColumns types each column by its first non-nil value.
func inferColumns(table string, c types.Columns) ([]types.ColumnDef, error) {
	if len(c.Names) != len(c.Values) {
		return nil, types.Errorf("write table", table, types.ErrArity, "%d column names for %d columns", len(c.Names), len(c.Values))
	}
	defs := make([]types.ColumnDef, len(c.Names))
	for i, name := range c.Names {
		defs[i] = types.ColumnDef{Name: name}
		for _, v := range c.Values[i] {
			tag, err := TagOf(v)
			if err != nil {
				return nil, &types.StoreError{Op: "write table", Name: table + "." + name, Err: err}
			}
			if tag != "" {
				defs[i].Type = string(tag)
				break
			}
		}
	}
	return defs, nil
}
