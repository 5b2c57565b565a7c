package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type localStorageRepository struct {
	q         *db.Queries
	pool      *pgxpool.Pool
	namespace string
}

// NewLocalStorage returns durable client storage backed by the local_storage
// table. All keys are scoped to namespace.
func NewLocalStorage(pool *pgxpool.Pool, namespace string) (port.LocalStorage, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	if namespace == "" {
		return nil, fmt.Errorf("namespace is empty")
	}

	return &localStorageRepository{
		q:         db.New(pool),
		pool:      pool,
		namespace: namespace,
	}, nil
}

func NewLocalStorageWithTx(tx pgx.Tx, namespace string) (port.LocalStorage, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace is empty")
	}

	return &localStorageRepository{
		q:         db.New(tx),
		pool:      nil, // use provided transaction instead
		namespace: namespace,
	}, nil
}

func (r *localStorageRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, fmt.Errorf("key is empty")
	}

	value, err := r.q.GetItem(ctx, db.GetItemParams{
		Namespace: r.namespace,
		Key:       key,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("q.GetItem: %w", err)
	}

	return value, true, nil
}

func (r *localStorageRepository) Set(ctx context.Context, entries ...domain.Entry) error {
	for _, entry := range entries {
		if entry.Key == "" {
			return fmt.Errorf("key is empty")
		}
	}
	if len(entries) == 0 {
		return nil
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		for _, entry := range entries {
			err := q.SetItem(ctx, db.SetItemParams{
				Namespace: r.namespace,
				Key:       entry.Key,
				Value:     entry.Value,
			})
			if err != nil {
				return struct{}{}, fmt.Errorf("q.SetItem[%s]: %w", entry.Key, err)
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (r *localStorageRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := r.q.DeleteItems(ctx, db.DeleteItemsParams{
		Namespace: r.namespace,
		Keys:      keys,
	})
	if err != nil {
		return fmt.Errorf("q.DeleteItems: %w", err)
	}

	return nil
}
