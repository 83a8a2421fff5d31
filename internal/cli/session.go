package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/carebase/internal/seed"
	"github.com/roach88/carebase/internal/store"
)

// openStore opens the configured database, creating its directory if needed.
// A freshly created database is seeded when autoSeed is set and the seed
// setting allows it.
func (o *RootOptions) openStore(ctx context.Context, autoSeed bool) (*store.Store, error) {
	if dir := filepath.Dir(o.Database); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	o.Logger.Debug("opening database", "path", o.Database)
	st, err := store.Open(o.Database)
	if err != nil {
		return nil, &store.Error{Kind: store.KindStorageFault, Op: "open database", Err: err}
	}

	if autoSeed && st.Fresh() && o.Config.Seed {
		o.Logger.Info("new database, loading seed records", "path", o.Database)
		if err := seed.Load(ctx, st, o.Logger); err != nil {
			st.Close()
			return nil, err
		}
	}
	return st, nil
}

// closeStore closes st, logging any failure.
func (o *RootOptions) closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		o.Logger.Error("error closing database", "error", err)
	}
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
