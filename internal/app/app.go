// Package app wires the storefront core: one durable storage backend, the
// cart and auth stores over it, the remote API client and checkout.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/auth"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/dummyjson"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/storage/bolt"
	"github.com/nikolayk812/storefront/internal/storage/memory"
	"github.com/nikolayk812/storefront/internal/storage/sqlite"
)

// App owns the stores for the lifetime of the process. Build it once at
// startup and Close it on shutdown.
type App struct {
	Cart     *cart.Store
	Auth     *auth.Store
	Checkout *checkout.Service
	Catalog  port.Catalog

	logger  *slog.Logger
	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cfg.Validate: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	unit, err := cfg.CurrencyUnit()
	if err != nil {
		return nil, fmt.Errorf("cfg.CurrencyUnit: %w", err)
	}

	client, err := dummyjson.New(cfg.APIBaseURL, dummyjson.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return nil, fmt.Errorf("dummyjson.New: %w", err)
	}

	a := &App{
		Catalog: client,
		logger:  logger,
	}

	storage, err := a.openStorage(ctx, cfg)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("openStorage: %w", err), a.Close())
	}

	a.Cart = cart.NewStore(ctx, storage,
		cart.WithLogger(logger.With("store", "cart")),
		cart.WithCurrency(unit),
	)

	a.Auth = auth.NewStore(ctx, storage, client,
		auth.WithLogger(logger.With("store", "auth")),
		auth.WithTimeout(cfg.RequestTimeout),
		auth.WithLocalShortcut(cfg.LocalLoginShortcut),
		auth.WithAvatarURL(cfg.AvatarURL),
	)

	checkoutOpts := []checkout.Option{
		checkout.WithDelay(cfg.CheckoutDelay),
		checkout.WithLogger(logger.With("component", "checkout")),
	}
	if cfg.RequireLogin {
		checkoutOpts = append(checkoutOpts, checkout.WithSessionCheck(a.Auth))
	}
	a.Checkout = checkout.NewService(a.Cart, checkoutOpts...)

	return a, nil
}

// Close releases the storage backend. It is safe to call more than once.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	return errors.Join(errs...)
}

func (a *App) openStorage(ctx context.Context, cfg config.Config) (port.LocalStorage, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		a.logger.Warn("memory storage selected, nothing survives a restart")
		return memory.New(), nil

	case config.StorageBolt:
		store, err := bolt.Open(cfg.StoragePath, cfg.Profile)
		if err != nil {
			return nil, fmt.Errorf("bolt.Open: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil

	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.StoragePath, cfg.Profile)
		if err != nil {
			return nil, fmt.Errorf("sqlite.Open: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil

	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})

		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("pool.Ping: %w", err)
		}

		store, err := repository.NewLocalStorage(pool, cfg.Profile)
		if err != nil {
			return nil, fmt.Errorf("repository.NewLocalStorage: %w", err)
		}
		return store, nil
	}

	return nil, fmt.Errorf("storage driver[%s] is not supported", cfg.StorageDriver)
}
