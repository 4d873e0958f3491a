// Package cli implements the jeeves command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jeeves/internal/registry"
	"github.com/mesh-intelligence/jeeves/internal/sqlite"
	"github.com/mesh-intelligence/jeeves/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values for one command tree.
type rootFlags struct {
	configDir string
	dataDir   string
	dbPath    string
	logLevel  string
	jsonMode  bool
}

// NewRootCmd creates the top-level "jeeves" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:   "jeeves",
		Short: "A typed record store over an embedded SQLite database",
		Long: "Jeeves manages tables, rows, indexes, dumps, and a key-to-file registry\n" +
			"in a single SQLite store.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&f.dataDir, "data-dir", "", "data directory (default: ./.jeeves)")
	pf.StringVar(&f.dbPath, "db", "", "store file, or :memory: (default: <data-dir>/jeeves.db)")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&f.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(f),
		newInfoCmd(f),
		newTablesCmd(f),
		newColumnsCmd(f),
		newSizeCmd(f),
		newQueryCmd(f),
		newDumpCmd(f),
		newRestoreCmd(f),
		newIndexCmd(f),
		newAnalyzeCmd(f),
		newRegistryCmd(f),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

func exitCode(err error) int {
	if errors.Is(err, types.ErrEngine) || errors.Is(err, types.ErrConfiguration) {
		return exitSysError
	}
	return exitUserError
}

func newLogger(level string, w io.Writer) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// session is an open store plus the configuration that located it.
type session struct {
	cfg    types.Config
	store  *sqlite.Store
	logger *slog.Logger
}

// openSession loads configuration and opens the store. Callers close it.
func openSession(cmd *cobra.Command, f *rootFlags) (*session, error) {
	cfg, err := loadConfig(f)
	if err != nil {
		return nil, err
	}
	if cfg.Path != types.MemoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	logger := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
	store := sqlite.NewStore(cfg, sqlite.WithLogger(logger))
	if err := store.Open(cmd.Context()); err != nil {
		return nil, err
	}
	return &session{cfg: cfg, store: store, logger: logger}, nil
}

func (s *session) Close() error { return s.store.Close() }

func (s *session) registry(ctx context.Context) (*registry.Registry, error) {
	return registry.New(ctx, s.store, registry.WithTable(s.cfg.RegistryTable), registry.WithLogger(s.logger))
}

// withSession opens a session around fn.
func withSession(f *rootFlags, fn func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		s, err := openSession(cmd, f)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := s.Close(); err == nil {
				err = cerr
			}
		}()
		return fn(cmd, s, args)
	}
}

// keyArgs accepts a key as separate arguments or as one joined argument.
func keyArgs(args []string) []string {
	if len(args) == 1 && strings.Contains(args[0], registry.Separator) {
		return strings.Split(args[0], registry.Separator)
	}
	return args
}
