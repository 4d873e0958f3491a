package sqlite

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

// writeAtomic writes path through a temp file in the same directory,
// synced and renamed into place, so readers never see a partial file.
func writeAtomic(path string, fill func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jeeves-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := bufio.NewWriter(tmp)
	if err := fill(w); err != nil {
		return fail(err)
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// DumpFile writes Dump output to path atomically.
func (s *Store) DumpFile(ctx context.Context, path, table string) error {
	err := writeAtomic(path, func(w io.Writer) error {
		return s.Dump(ctx, w, table)
	})
	if err != nil {
		var se *types.StoreError
		if errors.As(err, &se) {
			return err
		}
		return &types.StoreError{Op: "dump", Name: path, Err: err}
	}
	return nil
}

// RestoreFile replays the dump stored at path.
func (s *Store) RestoreFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &types.StoreError{Op: "restore", Name: path, Err: err}
	}
	defer f.Close()
	return s.Restore(ctx, f)
}
