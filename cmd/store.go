package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/gridpoint/internal/resilience"
	"github.com/sells-group/gridpoint/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "gridpoint.db"
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		policy := resilience.DefaultPolicy()
		policy.Attempts = cfg.Store.ConnectAttempts
		err = resilience.Do(ctx, "postgres connect", policy, func(ctx context.Context) error {
			pg, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
				MaxConns: cfg.Store.MaxConns,
				MinConns: cfg.Store.MinConns,
			})
			if err != nil {
				return err
			}
			st = pg
			return nil
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}
