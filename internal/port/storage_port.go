package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

// LocalStorage is string-keyed durable client storage scoped to one profile.
type LocalStorage interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set writes all entries atomically.
	Set(ctx context.Context, entries ...domain.Entry) error
	// Delete removes all keys atomically. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
