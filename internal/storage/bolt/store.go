package bolt

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/storage"
	"go.etcd.io/bbolt"
)

// Store provides BoltDB-backed durable client storage. Each namespace is a
// bucket so several profiles can share one file.
type Store struct {
	db     *bbolt.DB
	bucket []byte
}

// Open opens a BoltDB file at path and ensures the namespace bucket exists.
func Open(path, namespace string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if strings.TrimSpace(namespace) == "" {
		return nil, fmt.Errorf("namespace is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db, bucket: []byte(namespace)}
	if err := store.ensureBucket(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if s == nil || s.db == nil {
		return "", false, storage.ErrNotConfigured
	}
	if key == "" {
		return "", false, fmt.Errorf("key is empty")
	}

	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.bucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s is missing", s.bucket)
		}
		// bbolt memory is only valid inside the transaction, string() copies it
		if payload := bucket.Get([]byte(key)); payload != nil {
			value, found = string(payload), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("db.View: %w", err)
	}

	return value, found, nil
}

func (s *Store) Set(ctx context.Context, entries ...domain.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return storage.ErrNotConfigured
	}
	for _, entry := range entries {
		if entry.Key == "" {
			return fmt.Errorf("key is empty")
		}
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.bucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s is missing", s.bucket)
		}
		for _, entry := range entries {
			if err := bucket.Put([]byte(entry.Key), []byte(entry.Value)); err != nil {
				return fmt.Errorf("put %s: %w", entry.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("db.Update: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return storage.ErrNotConfigured
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.bucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s is missing", s.bucket)
		}
		for _, key := range keys {
			if key == "" {
				continue
			}
			if err := bucket.Delete([]byte(key)); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("db.Update: %w", err)
	}

	return nil
}

func (s *Store) ensureBucket() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(s.bucket); err != nil {
			return fmt.Errorf("create %s bucket: %w", s.bucket, err)
		}
		return nil
	})
}
