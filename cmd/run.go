package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/config"
	"github.com/abhisek/recall/internal/stats"
	"github.com/abhisek/recall/internal/store"
)

// env bundles what every data command needs.
type env struct {
	cfg   *config.Config
	store *store.Store
}

// openEnv loads the config and opens the store. Callers must Close the env.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &env{cfg: cfg, store: st}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

func (e *env) stats() *stats.Service {
	s := e.store
	return stats.NewService(s.ItemRepo(), s.EventRepo(), s.SnapshotRepo(), e.cfg.Stats.SnapshotKeep)
}

// findCollection resolves a collection by name, falling back to id.
func (e *env) findCollection(ctx context.Context, ref string) (*store.Collection, error) {
	repo := e.store.CollectionRepo()
	c, err := repo.GetByName(ctx, ref)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	c, err = repo.Get(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("collection %q not found", ref)
	}
	return c, err
}
