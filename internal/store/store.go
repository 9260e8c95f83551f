// Package store caches extraction results so repeat requests for the same
// URL skip the pipeline entirely. Two backends are provided: SQLite for
// single-process deployments and Postgres for shared ones.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/elenafy/ChefStacks-sub001/internal/config"
	"github.com/elenafy/ChefStacks-sub001/internal/model"
)

// Store is the recipe cache interface. Get returns (nil, nil) on a miss or
// an expired entry; only infrastructure faults surface as errors.
type Store interface {
	GetRecipe(ctx context.Context, sourceURL string) (*model.FusedRecipe, error)
	SetRecipe(ctx context.Context, sourceURL string, rec *model.FusedRecipe, ttl time.Duration) error
	DeleteExpired(ctx context.Context) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs the configured backend, or (nil, nil) when caching is
// disabled.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case "":
		return nil, nil
	case "sqlite":
		return NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Store.Driver)
	}
}
