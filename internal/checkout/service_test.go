package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var validDetails = domain.ShippingDetails{
	Address:    "1 Main St",
	City:       "Springfield",
	Phone:      "555-0100",
	CardNumber: "4242 4242 4242 4242",
}

func TestPlaceOrder(t *testing.T) {
	ctx := t.Context()
	storage := memory.New()
	cartStore := cart.NewStore(ctx, storage)
	require.NoError(t, cartStore.AddToCart(ctx, domain.Product{ID: 1, Title: "Mascara", Price: decimal.RequireFromString("9.99")}, 2))

	orderID := uuid.New()
	placedAt := time.Date(2026, 1, 23, 12, 0, 0, 0, time.UTC)

	svc := NewService(cartStore, WithDelay(0))
	svc.newID = func() uuid.UUID { return orderID }
	svc.now = func() time.Time { return placedAt }

	order, err := svc.PlaceOrder(ctx, validDetails)
	require.NoError(t, err)

	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, "USD 19.98", order.Total.String())
	assert.Equal(t, "4242", order.CardLast4)
	assert.Equal(t, placedAt, order.PlacedAt)
	require.Len(t, order.Items, 1)

	assert.True(t, cartStore.Cart().IsEmpty())
	_, found, err := storage.Get(ctx, cart.StorageKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPlaceOrderValidation(t *testing.T) {
	ctx := t.Context()
	cartStore := cart.NewStore(ctx, memory.New())
	svc := NewService(cartStore, WithDelay(0))

	_, err := svc.PlaceOrder(ctx, domain.ShippingDetails{City: "Springfield"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address is required")
	assert.Contains(t, err.Error(), "phone is required")
	assert.Contains(t, err.Error(), "card number is required")
	assert.NotContains(t, err.Error(), "city is required")

	_, err = svc.PlaceOrder(ctx, validDetails)
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderRequiresSession(t *testing.T) {
	ctx := t.Context()
	cartStore := cart.NewStore(ctx, memory.New())
	require.NoError(t, cartStore.AddToCart(ctx, domain.Product{ID: 1, Price: decimal.NewFromInt(1)}, 1))

	sessions := &fakeSessions{}
	svc := NewService(cartStore, WithDelay(0), WithSessionCheck(sessions))

	_, err := svc.PlaceOrder(ctx, validDetails)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, cartStore.Cart().IsEmpty())

	sessions.ok = true
	_, err = svc.PlaceOrder(ctx, validDetails)
	require.NoError(t, err)
}

func TestPlaceOrderCancelledKeepsCart(t *testing.T) {
	cartStore := cart.NewStore(t.Context(), memory.New())
	require.NoError(t, cartStore.AddToCart(t.Context(), domain.Product{ID: 1, Price: decimal.NewFromInt(1)}, 1))

	svc := NewService(cartStore, WithDelay(time.Hour))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.PlaceOrder(ctx, validDetails)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, cartStore.Cart().IsEmpty())
}

func TestLast4(t *testing.T) {
	assert.Equal(t, "4242", last4("4242-4242-4242-4242"))
	assert.Equal(t, "12", last4("12"))
	assert.Equal(t, "", last4(""))
}

type fakeSessions struct {
	ok bool
}

func (f *fakeSessions) Session() (domain.Session, bool) {
	return domain.Session{}, f.ok
}
