// Package cart holds the shopping cart state. The cart is restored from
// durable storage when the store is built and written back after every
// change, before subscribers are notified.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/observable"
	"github.com/nikolayk812/storefront/internal/port"
	"golang.org/x/text/currency"
)

// StorageKey is the durable storage key holding the serialized cart.
const StorageKey = "cart"

type Store struct {
	mu   sync.Mutex
	cart domain.Cart
	// version numbers published snapshots so subscribers can drop a snapshot
	// that arrives after a newer one.
	version uint64

	storage  port.LocalStorage
	logger   *slog.Logger
	currency currency.Unit
	changes  observable.Subject[domain.Cart]
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCurrency sets the currency totals are reported in. Defaults to USD.
func WithCurrency(unit currency.Unit) Option {
	return func(s *Store) {
		s.currency = unit
	}
}

// NewStore builds a cart store and hydrates it from storage. Unreadable or
// malformed stored data is logged and replaced by an empty cart.
func NewStore(ctx context.Context, storage port.LocalStorage, opts ...Option) *Store {
	s := &Store{
		storage:  storage,
		logger:   slog.Default(),
		currency: currency.USD,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cart = s.load(ctx)
	return s
}

// Cart returns a snapshot of the cart.
func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Clone()
}

func (s *Store) Total() domain.Money {
	return s.Cart().Total(s.currency)
}

func (s *Store) Currency() currency.Unit {
	return s.currency
}

// Subscribe registers fn to receive a snapshot after every change. The
// snapshot has already been written to storage when fn runs.
func (s *Store) Subscribe(fn func(domain.Cart)) (unsubscribe func()) {
	return s.changes.Subscribe(fn)
}

// AddToCart adds quantity units of product. An existing line item keeps its
// cached title and price and only grows its quantity.
func (s *Store) AddToCart(ctx context.Context, product domain.Product, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be positive")
	}
	if product.ID == 0 {
		return fmt.Errorf("product id is empty")
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("price is negative")
	}

	s.mutate(ctx, func(cart *domain.Cart) bool {
		for i := range cart.Items {
			if cart.Items[i].ID == product.ID {
				cart.Items[i].Quantity += quantity
				return true
			}
		}

		cart.Items = append(cart.Items, domain.CartLineItem{
			ID:        product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Thumbnail: product.Thumbnail,
			Images:    slices.Clone(product.Images),
			Category:  product.Category,
			Quantity:  quantity,
		})
		return true
	})

	return nil
}

// IncreaseQuantity adds one unit. It reports whether the item exists.
func (s *Store) IncreaseQuantity(ctx context.Context, id domain.ProductID) bool {
	var found bool

	s.mutate(ctx, func(cart *domain.Cart) bool {
		i := indexOf(*cart, id)
		if i < 0 {
			return false
		}

		found = true
		cart.Items[i].Quantity++
		return true
	})

	return found
}

// DecreaseQuantity removes one unit but never takes an item below 1; use
// RemoveFromCart to drop it. It reports whether the item exists.
func (s *Store) DecreaseQuantity(ctx context.Context, id domain.ProductID) bool {
	var found bool

	s.mutate(ctx, func(cart *domain.Cart) bool {
		i := indexOf(*cart, id)
		if i < 0 {
			return false
		}

		found = true
		if cart.Items[i].Quantity <= 1 {
			return false
		}
		cart.Items[i].Quantity--
		return true
	})

	return found
}

// RemoveFromCart drops the line item whatever its quantity. It reports
// whether the item existed.
func (s *Store) RemoveFromCart(ctx context.Context, id domain.ProductID) bool {
	var found bool

	s.mutate(ctx, func(cart *domain.Cart) bool {
		i := indexOf(*cart, id)
		if i < 0 {
			return false
		}

		found = true
		cart.Items = slices.Delete(cart.Items, i, i+1)
		return true
	})

	return found
}

// ClearCart empties the cart and deletes the stored record. A missing record
// reads back as an empty cart.
func (s *Store) ClearCart(ctx context.Context) {
	s.Drain(ctx)
}

// Drain empties the cart like ClearCart and returns what it held, in one step.
// Subscribers are only notified when the cart held something.
func (s *Store) Drain(ctx context.Context) domain.Cart {
	s.mu.Lock()
	drained := s.cart
	s.cart = domain.Cart{}

	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		s.logPersistenceError(&domain.PersistenceError{Op: "delete", Key: StorageKey, Err: err})
	}

	if drained.IsEmpty() {
		s.mu.Unlock()
		return drained
	}

	s.version++
	seq := s.version
	s.mu.Unlock()

	s.changes.Publish(seq, domain.Cart{})
	return drained
}

// mutate applies fn under the lock, persists the result when fn reports a
// change, and then notifies subscribers.
func (s *Store) mutate(ctx context.Context, fn func(cart *domain.Cart) bool) {
	s.mu.Lock()
	if !fn(&s.cart) {
		s.mu.Unlock()
		return
	}

	s.save(ctx)
	snapshot := s.cart.Clone()
	s.version++
	seq := s.version
	s.mu.Unlock()

	s.changes.Publish(seq, snapshot)
}

func (s *Store) save(ctx context.Context) {
	payload, err := encodeCart(s.cart)
	if err != nil {
		s.logPersistenceError(&domain.PersistenceError{Op: "encode", Key: StorageKey, Err: err})
		return
	}

	if err := s.storage.Set(ctx, domain.Entry{Key: StorageKey, Value: payload}); err != nil {
		s.logPersistenceError(&domain.PersistenceError{Op: "write", Key: StorageKey, Err: err})
	}
}

func (s *Store) load(ctx context.Context) domain.Cart {
	payload, found, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		s.logPersistenceError(&domain.PersistenceError{Op: "read", Key: StorageKey, Err: err})
		return domain.Cart{}
	}
	if !found {
		return domain.Cart{}
	}

	cart, err := decodeCart(payload)
	if err != nil {
		s.logPersistenceError(&domain.PersistenceError{Op: "decode", Key: StorageKey, Err: err})
		return domain.Cart{}
	}

	return cart
}

func (s *Store) logPersistenceError(err *domain.PersistenceError) {
	s.logger.Warn("cart kept in memory only", slog.Any("error", err))
}

func indexOf(cart domain.Cart, id domain.ProductID) int {
	return slices.IndexFunc(cart.Items, func(item domain.CartLineItem) bool {
		return item.ID == id
	})
}
