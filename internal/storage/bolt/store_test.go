package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/storage"
)

func TestStoreSetGetSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.db")
	store, err := Open(path, "default")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	ctx := context.Background()
	if err := store.Set(ctx, domain.Entry{Key: "cart", Value: `[{"id":1}]`}, domain.Entry{Key: "token", Value: "t"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	store, err = Open(path, "default")
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer store.Close()

	value, found, err := store.Get(ctx, "cart")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected cart to be found after reopen")
	}
	if value != `[{"id":1}]` {
		t.Fatalf("expected stored cart, got %q", value)
	}
}

func TestStoreDelete(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "storefront.db"), "default")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Set(ctx, domain.Entry{Key: "user", Value: "{}"}, domain.Entry{Key: "token", Value: "t"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Delete(ctx, "user", "token", "missing"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, key := range []string{"user", "token"} {
		_, found, err := store.Get(ctx, key)
		if err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
		if found {
			t.Fatalf("expected %s to be deleted", key)
		}
	}
}

func TestStoreNamespacesAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.db")
	alice, err := Open(path, "alice")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	ctx := context.Background()
	if err := alice.Set(ctx, domain.Entry{Key: "token", Value: "alice"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	// bbolt holds an exclusive file lock
	if err := alice.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	bob, err := Open(path, "bob")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer bob.Close()

	_, found, err := bob.Get(ctx, "token")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("expected bob to not see alice's token")
	}
}

func TestOpenRequiresPathAndNamespace(t *testing.T) {
	if _, err := Open(" ", "default"); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "x.db"), ""); err == nil {
		t.Fatal("expected error for empty namespace")
	}
}

func TestStoreNotConfigured(t *testing.T) {
	var store *Store
	if _, _, err := store.Get(context.Background(), "cart"); !errors.Is(err, storage.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}
