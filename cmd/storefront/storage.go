package main

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-cart/internal/storage"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/db"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/migrate"
	"github.com/angelmondragon/storefront-cart/pkg/redis"
)

// openStorage builds the key-value store for the configured backend. The returned close
// func releases any connection it opened.
func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.Store, func() error, error) {
	noop := func() error { return nil }

	switch backend := cfg.Storage.NormalizedBackend(); backend {
	case config.BackendMemory:
		return storage.NewMemory(), noop, nil

	case config.BackendRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, noop, fmt.Errorf("bootstrap redis: %w", err)
		}
		store, err := storage.NewRedis(client, cfg.Storage.CartTTL)
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return store, client.Close, nil

	case config.BackendSQLite, config.BackendPostgres:
		client, err := db.New(ctx, backend, cfg.DB, logg)
		if err != nil {
			return nil, noop, fmt.Errorf("bootstrap database: %w", err)
		}
		if err := migrate.MaybeAutoRun(ctx, cfg, logg, client); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("run migrations: %w", err)
		}
		store, err := storage.NewSQL(client)
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return store, client.Close, nil

	default:
		return nil, noop, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}
