// Package registry maps composite keys to file paths in a two-column table
// of a jeeves store.
package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

// Separator joins the parts of a composite key.
const Separator = "----"

// Keyize joins key parts, in order, into the stored key.
func Keyize(parts []string) (string, error) {
	key := strings.Join(parts, Separator)
	if key == "" {
		return "", types.Errorf("keyize", "", types.ErrInvalidName, "empty key")
	}
	return key, nil
}

// Registry is a key to file path lookup stored in one table.
type Registry struct {
	db     types.Database
	table  string
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithTable stores entries in table instead of the default.
func WithTable(table string) Option {
	return func(r *Registry) {
		if table != "" {
			r.table = table
		}
	}
}

// WithLogger sets the registry's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a registry over db, creating its table and the unique index
// on the key column if they are missing.
func New(ctx context.Context, db types.Database, opts ...Option) (*Registry, error) {
	r := &Registry{
		db:     db,
		table:  types.DefaultRegistryTable,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}

	ok, err := db.Exists(ctx, r.table)
	if err != nil {
		return nil, err
	}
	if !ok {
		cols := []types.ColumnDef{
			{Name: "key", Type: "TEXT"},
			{Name: "filename", Type: "TEXT"},
		}
		if err := db.Create(ctx, r.table, cols, ""); err != nil {
			return nil, err
		}
		r.logger.Info("registry table created", "table", r.table)
	}
	if err := db.CreateIndex(ctx, r.table+".key", true); err != nil {
		return nil, err
	}
	return r, nil
}

// Table returns the backing table name.
func (r *Registry) Table() string { return r.table }

// Add records path under key. A key already present is a duplicate.
func (r *Registry) Add(ctx context.Context, key []string, path string) error {
	skey, err := Keyize(key)
	if err != nil {
		return err
	}
	found, err := r.Exists(ctx, key)
	if err != nil {
		return err
	}
	if found {
		return types.Errorf("registry add", skey, types.ErrDuplicateKey, "")
	}
	if _, err := r.db.Insert(ctx, r.table, types.KeyedRecord{"key": skey, "filename": path}); err != nil {
		return err
	}
	r.logger.Debug("registry entry added", "key", skey, "filename", path)
	return nil
}

// Search returns the entries stored under key.
func (r *Registry) Search(ctx context.Context, key []string) ([]types.RegistryEntry, error) {
	skey, err := Keyize(key)
	if err != nil {
		return nil, err
	}
	return r.entries(ctx, `"key" = ?`, skey)
}

// Exists reports whether key is registered.
func (r *Registry) Exists(ctx context.Context, key []string) (bool, error) {
	entries, err := r.Search(ctx, key)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

// Retrieve returns the path registered under key.
func (r *Registry) Retrieve(ctx context.Context, key []string) (string, error) {
	entries, err := r.Search(ctx, key)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", types.Errorf("registry retrieve", strings.Join(key, Separator), types.ErrNotFound, "")
	}
	return entries[0].Filename, nil
}

// Delete removes key. With hard set, the registered file is removed too,
// after the row. Deleting an absent key does nothing.
func (r *Registry) Delete(ctx context.Context, key []string, hard bool) error {
	entries, err := r.Search(ctx, key)
	if err != nil || len(entries) == 0 {
		return err
	}
	skey := entries[0].Key
	if _, err := r.db.Delete(ctx, r.table, `"key" = ?`, skey); err != nil {
		return err
	}
	r.logger.Debug("registry entry deleted", "key", skey)
	if !hard {
		return nil
	}
	for _, e := range entries {
		if err := os.Remove(e.Filename); err != nil && !errors.Is(err, os.ErrNotExist) {
			return &types.StoreError{Op: "registry delete", Name: e.Filename, Err: err}
		}
	}
	return nil
}

// List returns every entry ordered by key.
func (r *Registry) List(ctx context.Context) ([]types.RegistryEntry, error) {
	return r.entries(ctx, "")
}

func (r *Registry) entries(ctx context.Context, where string, args ...any) ([]types.RegistryEntry, error) {
	rs, err := r.db.Query(ctx, types.QueryOptions{
		Table:   r.table,
		Columns: []string{"key", "filename"},
		Where:   where,
		Args:    args,
		OrderBy: `"key"`,
	})
	if err != nil {
		return nil, err
	}
	out := make([]types.RegistryEntry, 0, rs.Len())
	for _, rec := range rs.Records {
		var e types.RegistryEntry
		e.Key, _ = rec[0].(string)
		e.Filename, _ = rec[1].(string)
		out = append(out, e)
	}
	return out, nil
}

var _ types.Registry = (*Registry)(nil)
