// Package sqlite provides the public constructors for the SQLite-backed
// jeeves store and registry while keeping the implementation internal.
package sqlite

import (
	"context"
	"log/slog"

	"github.com/mesh-intelligence/jeeves/internal/registry"
	"github.com/mesh-intelligence/jeeves/internal/sqlite"
	"github.com/mesh-intelligence/jeeves/pkg/types"
)

// Open validates cfg and returns an open store.
//
// Example:
//
//	db, err := sqlite.Open(ctx, types.Config{Path: "survey.db"}, nil)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
func Open(ctx context.Context, cfg types.Config, logger *slog.Logger) (types.Database, error) {
	s := sqlite.NewStore(cfg, sqlite.WithLogger(logger))
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewRegistry returns a registry in db's registry table named by cfg.
func NewRegistry(ctx context.Context, db types.Database, cfg types.Config, logger *slog.Logger) (types.Registry, error) {
	cfg = cfg.WithDefaults()
	return registry.New(ctx, db, registry.WithTable(cfg.RegistryTable), registry.WithLogger(logger))
}
