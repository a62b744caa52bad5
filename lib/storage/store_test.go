// Copyright 2026 The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package storage_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/inkwell-sh/inkwell/lib/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(storage.Config{
		Path:       filepath.Join(t.TempDir(), "test.db"),
		Namespaces: []string{"documents", "slugs"},
		PoolSize:   4,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func TestPutGetRemove(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	key := []byte("k1")
	value := []byte("v1")

	previous, found, err := store.Put(ctx, "documents", key, value)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if found {
		t.Errorf("Put on fresh key reported previous value %q", previous)
	}

	got, found, err := store.Get(ctx, "documents", key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || !bytes.Equal(got, value) {
		t.Errorf("Get = %q, found=%v, want %q, true", got, found, value)
	}

	previous, found, err = store.Put(ctx, "documents", key, []byte("v2"))
	if err != nil {
		t.Fatalf("Put (overwrite): %v", err)
	}
	if !found || !bytes.Equal(previous, value) {
		t.Errorf("overwrite previous = %q, found=%v, want %q, true", previous, found, value)
	}

	removed, found, err := store.Remove(ctx, "documents", key)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !found || !bytes.Equal(removed, []byte("v2")) {
		t.Errorf("Remove = %q, found=%v, want %q, true", removed, found, "v2")
	}

	_, found, err = store.Get(ctx, "documents", key)
	if err != nil {
		t.Fatalf("Get after Remove: %v", err)
	}
	if found {
		t.Error("key still present after Remove")
	}

	_, found, err = store.Remove(ctx, "documents", key)
	if err != nil {
		t.Fatalf("Remove (absent): %v", err)
	}
	if found {
		t.Error("Remove of absent key reported found")
	}
}

func TestNamespaceIndependence(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	key := []byte("shared-key")
	if _, _, err := store.Put(ctx, "documents", key, []byte("doc")); err != nil {
		t.Fatalf("Put documents: %v", err)
	}
	if _, _, err := store.Put(ctx, "slugs", key, []byte("slug")); err != nil {
		t.Fatalf("Put slugs: %v", err)
	}

	got, _, err := store.Get(ctx, "documents", key)
	if err != nil {
		t.Fatalf("Get documents: %v", err)
	}
	if string(got) != "doc" {
		t.Errorf("documents value = %q, want %q", got, "doc")
	}

	if _, _, err := store.Remove(ctx, "slugs", key); err != nil {
		t.Fatalf("Remove slugs: %v", err)
	}
	found, err := store.Contains(ctx, "documents", key)
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if !found {
		t.Error("removing from slugs removed the documents entry")
	}
}

func TestPutIfAbsent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	inserted, err := store.PutIfAbsent(ctx, "slugs", []byte("abcd"), []byte("first"))
	if err != nil {
		t.Fatalf("PutIfAbsent: %v", err)
	}
	if !inserted {
		t.Error("first PutIfAbsent reported inserted=false")
	}

	inserted, err = store.PutIfAbsent(ctx, "slugs", []byte("abcd"), []byte("second"))
	if err != nil {
		t.Fatalf("PutIfAbsent (present): %v", err)
	}
	if inserted {
		t.Error("second PutIfAbsent reported inserted=true")
	}

	got, _, err := store.Get(ctx, "slugs", []byte("abcd"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "first" {
		t.Errorf("value = %q, want %q (losing write must not overwrite)", got, "first")
	}
}

func TestPutIfAbsentConcurrent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	const racers = 16
	var wg sync.WaitGroup
	results := make([]bool, racers)
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := store.PutIfAbsent(ctx, "slugs", []byte("race"), []byte{byte(i)})
			if err != nil {
				t.Errorf("racer %d: %v", i, err)
				return
			}
			results[i] = inserted
		}()
	}
	wg.Wait()

	winners := 0
	for _, inserted := range results {
		if inserted {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
}

func TestCount(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	count, err := store.Count(ctx, "documents")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("empty Count = %d, want 0", count)
	}

	for _, key := range []string{"a", "b", "c"} {
		if _, _, err := store.Put(ctx, "documents", []byte(key), []byte("x")); err != nil {
			t.Fatalf("Put %q: %v", key, err)
		}
	}
	count, err = store.Count(ctx, "documents")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("Count = %d, want 3", count)
	}
}

func TestUndeclaredNamespace(t *testing.T) {
	store := openTestStore(t)

	_, _, err := store.Get(context.Background(), "sessions", []byte("k"))
	var storageErr *storage.Error
	if !errors.As(err, &storageErr) {
		t.Fatalf("Get on undeclared namespace = %v, want *storage.Error", err)
	}
}

func TestOpenRejectsBadNamespace(t *testing.T) {
	_, err := storage.Open(storage.Config{
		Path:       filepath.Join(t.TempDir(), "bad.db"),
		Namespaces: []string{"ok", "no; DROP TABLE ok"},
	})
	if err == nil {
		t.Fatal("Open with malformed namespace name succeeded, want error")
	}
}
