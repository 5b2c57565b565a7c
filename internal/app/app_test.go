package app_test

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/nikolayk812/storefront/internal/app"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartSurvivesRestart(t *testing.T) {
	for _, driver := range []string{config.StorageBolt, config.StorageSQLite} {
		t.Run(driver, func(t *testing.T) {
			ctx := t.Context()
			cfg := testConfig(t)
			cfg.StorageDriver = driver
			cfg.StoragePath = filepath.Join(t.TempDir(), "storefront-"+driver)

			first, err := app.New(ctx, cfg, discardLogger())
			require.NoError(t, err)

			require.NoError(t, first.Cart.AddToCart(ctx, domain.Product{ID: 1, Title: "Mascara", Price: decimal.RequireFromString("9.99")}, 2))
			require.NoError(t, first.Close())

			second, err := app.New(ctx, cfg, discardLogger())
			require.NoError(t, err)
			defer second.Close()

			assert.Equal(t, "USD 19.98", second.Cart.Total().String())
			_, ok := second.Auth.Session()
			assert.False(t, ok)
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageDriver = "redis"

	_, err := app.New(t.Context(), cfg, discardLogger())
	require.ErrorContains(t, err, "storage driver[redis] is not supported")
}

func TestCloseIsIdempotent(t *testing.T) {
	cfg := testConfig(t)

	a, err := app.New(t.Context(), cfg, discardLogger())
	require.NoError(t, err)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}

func testConfig(t *testing.T) config.Config {
	t.Helper()

	var cfg config.Config
	require.NoError(t, config.ParseEnv(&cfg))
	cfg.StorageDriver = config.StorageMemory
	cfg.CheckoutDelay = 0

	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
