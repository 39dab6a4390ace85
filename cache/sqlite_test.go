package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Set(ctx, "resp:u:u1:s:s1:abc", []byte("v1"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := store.Get(ctx, "resp:u:u1:s:s1:abc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "v1" {
		t.Errorf("value = %q, want v1", got)
	}

	// Upsert overwrites.
	if err := store.Set(ctx, "resp:u:u1:s:s1:abc", []byte("v2"), time.Minute); err != nil {
		t.Fatalf("Set (update) failed: %v", err)
	}
	got, _ = store.Get(ctx, "resp:u:u1:s:s1:abc")
	if string(got) != "v2" {
		t.Errorf("value after upsert = %q, want v2", got)
	}
}

func TestSQLiteStoreExpiry(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	current := time.Now()
	store.now = func() time.Time { return current }

	ctx := context.Background()
	if err := store.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	current = current.Add(2 * time.Minute)
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired entry: got %v, want ErrNotFound", err)
	}
}

func TestSQLiteStoreDeleteByPattern(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, key := range []string{"resp:u:u1:s:s1:a", "resp:u:u1:s:s2:b", "resp:u:u2:s:s1:c"} {
		if err := store.Set(ctx, key, []byte("v"), time.Hour); err != nil {
			t.Fatalf("Set %s failed: %v", key, err)
		}
	}

	if err := store.DeleteByPattern(ctx, "resp:u:u1:*"); err != nil {
		t.Fatalf("DeleteByPattern failed: %v", err)
	}
	if _, err := store.Get(ctx, "resp:u:u1:s:s1:a"); !errors.Is(err, ErrNotFound) {
		t.Error("u1 entries should be gone")
	}
	if _, err := store.Get(ctx, "resp:u:u2:s:s1:c"); err != nil {
		t.Errorf("u2 entry should survive: %v", err)
	}
}
