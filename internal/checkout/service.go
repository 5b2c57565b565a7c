// Package checkout places simulated orders: it validates shipping and card
// fields, waits a fixed delay standing in for a payment gateway and then
// empties the cart. No payment is taken.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
)

const DefaultDelay = 3 * time.Second

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrUnauthorized = errors.New("login required")
)

// SessionReader reports the active session.
type SessionReader interface {
	Session() (domain.Session, bool)
}

type Service struct {
	cart     *cart.Store
	sessions SessionReader
	delay    time.Duration
	logger   *slog.Logger
	now      func() time.Time
	newID    func() uuid.UUID
}

type Option func(*Service)

func WithDelay(delay time.Duration) Option {
	return func(s *Service) {
		if delay >= 0 {
			s.delay = delay
		}
	}
}

// WithSessionCheck makes PlaceOrder refuse to run without an active session.
func WithSessionCheck(sessions SessionReader) Option {
	return func(s *Service) {
		s.sessions = sessions
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(cartStore *cart.Store, opts ...Option) *Service {
	s := &Service{
		cart:   cartStore,
		delay:  DefaultDelay,
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// PlaceOrder validates details, waits for the simulated gateway and drains the
// cart into an order. Cancelling ctx during the wait leaves the cart intact.
func (s *Service) PlaceOrder(ctx context.Context, details domain.ShippingDetails) (domain.Order, error) {
	if s.sessions != nil {
		if _, ok := s.sessions.Session(); !ok {
			return domain.Order{}, ErrUnauthorized
		}
	}

	if err := validate(details); err != nil {
		return domain.Order{}, err
	}

	if s.cart.Cart().IsEmpty() {
		return domain.Order{}, ErrEmptyCart
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return domain.Order{}, fmt.Errorf("payment wait: %w", ctx.Err())
	case <-timer.C:
	}

	drained := s.cart.Drain(ctx)
	if drained.IsEmpty() {
		// cleared by someone else while waiting
		return domain.Order{}, ErrEmptyCart
	}

	order := domain.Order{
		ID:        s.newID(),
		Items:     drained.Items,
		Total:     drained.Total(s.cart.Currency()),
		Address:   details.Address,
		City:      details.City,
		Phone:     details.Phone,
		CardLast4: last4(details.CardNumber),
		PlacedAt:  s.now().UTC(),
	}

	s.logger.Info("order placed",
		slog.String("order_id", order.ID.String()),
		slog.Int("items", drained.Count()),
		slog.String("total", order.Total.String()),
	)

	return order, nil
}

func validate(details domain.ShippingDetails) error {
	var errs []error

	required := []struct {
		name  string
		value string
	}{
		{"address", details.Address},
		{"city", details.City},
		{"phone", details.Phone},
		{"card number", details.CardNumber},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", field.name))
		}
	}

	return errors.Join(errs...)
}

func last4(cardNumber string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, cardNumber)

	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
