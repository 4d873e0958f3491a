// Package sqlite implements the jeeves typed record store on an embedded
// SQLite engine: connection lifecycle, catalog introspection, type mapping,
// statement building, statistics, and dump/restore.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

// DriverName returns the engine driver compiled into this build.
func DriverName() string { return driverName }

// DriverType returns "purego" or "cgo".
func DriverType() string { return driverType }

// execer is satisfied by *sql.Conn and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is one physical store, a file or an in-memory instance. It holds
// at most one engine connection and one pinned cursor, both created on
// first use. A Store is not safe for concurrent use; callers serialize.
type Store struct {
	cfg    types.Config
	logger *slog.Logger

	db       *sql.DB
	conn     *sql.Conn
	external bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger. Statements log at Debug and index,
// analyze, and restore timings at Info.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore returns an unopened store for cfg. Configuration errors are
// reported by Open.
func NewStore(cfg types.Config, opts ...Option) *Store {
	s := &Store{
		cfg:    cfg.WithDefaults(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if cfg.Driver == "" {
		s.cfg.Driver = driverName
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStoreFromDB wraps an already opened database. Close releases the
// cursor but leaves db to its owner.
func NewStoreFromDB(db *sql.DB, opts ...Option) *Store {
	s := NewStore(types.Config{Path: "external"}, opts...)
	s.db = db
	s.external = true
	return s
}

// Path returns the store location.
func (s *Store) Path() string { return s.cfg.Path }

// Logger returns the store's logger.
func (s *Store) Logger() *slog.Logger { return s.logger }

// Open connects to the store. It is a no-op when already open.
func (s *Store) Open(ctx context.Context) error {
	if s.conn != nil {
		return nil
	}
	if s.db == nil {
		if err := s.cfg.Validate(); err != nil {
			return &types.StoreError{Op: "open", Name: s.cfg.Path, Err: err}
		}
		db, err := sql.Open(s.cfg.Driver, s.cfg.Path)
		if err != nil {
			return &types.StoreError{Op: "open", Name: s.cfg.Path, Err: fmt.Errorf("%w: %w", types.ErrConfiguration, err)}
		}
		// One connection keeps an in-memory store a single database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		s.db = db
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		s.closeDB()
		return types.EngineError("open", s.cfg.Path, err)
	}
	if !s.external {
		if err := applyPragmas(ctx, conn, s.cfg.BusyTimeout); err != nil {
			conn.Close()
			s.closeDB()
			return types.EngineError("open", s.cfg.Path, err)
		}
	}
	s.conn = conn
	s.logger.Debug("store opened", "path", s.cfg.Path, "driver", s.cfg.Driver)
	return nil
}

func applyPragmas(ctx context.Context, conn *sql.Conn, busyTimeout int) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout),
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("executing %q: %w", p, err)
		}
	}
	return nil
}

// Close releases the cursor, then the connection. Closing a closed store
// is a no-op, and a closed store may be opened again.
func (s *Store) Close() error {
	var err error
	if s.conn != nil {
		err = s.conn.Close()
		s.conn = nil
	}
	if cerr := s.closeDB(); err == nil {
		err = cerr
	}
	if err != nil {
		return types.EngineError("close", s.cfg.Path, err)
	}
	return nil
}

func (s *Store) closeDB() error {
	if s.db == nil || s.external {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Conn returns the pinned cursor, opening the store first if needed.
func (s *Store) Conn(ctx context.Context) (*sql.Conn, error) {
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	return s.conn, nil
}

// withTx runs fn inside one transaction on the pinned cursor. Any error
// from fn rolls back.
func (s *Store) withTx(ctx context.Context, op, name string, fn func(tx *sql.Tx) error) error {
	conn, err := s.Conn(ctx)
	if err != nil {
		return err
	}
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return types.EngineError(op, name, err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			s.logger.Warn("rollback failed", "op", op, "name", name, "error", rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return types.EngineError(op, name, err)
	}
	return nil
}

// exec runs one statement on the cursor and logs it.
func (s *Store) exec(ctx context.Context, op, name, stmt string, args ...any) (sql.Result, error) {
	conn, err := s.Conn(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("exec", "op", op, "sql", stmt)
	res, err := conn.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, types.EngineError(op, name, err)
	}
	return res, nil
}

// Summary describes the store as "<jeeves.Store [N tables, SIZE]> PATH".
func (s *Store) Summary(ctx context.Context) (string, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return "", err
	}
	out := "<jeeves.Store ["
	if len(tables) > 0 {
		size, ok, err := s.Size(ctx, "")
		if err != nil {
			return "", err
		}
		human := "unknown size"
		if ok {
			human = humanize.Bytes(uint64(size))
		}
		out += fmt.Sprintf("%d tables, %s", len(tables), human)
	} else {
		out += "0 tables"
	}
	return out + "]> " + s.cfg.Path, nil
}

func (s *Store) String() string {
	return fmt.Sprintf("jeeves.Store(%s)", s.cfg.Path)
}

var _ types.Database = (*Store)(nil)
