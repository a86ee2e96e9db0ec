package langcache_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"trackscan/internal/langcache"
)

func openTestCache(t *testing.T) *langcache.Cache {
	t.Helper()
	cache, err := langcache.Open(filepath.Join(t.TempDir(), "languages.db"), nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestStoreAndLookup(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	entry := langcache.Entry{Key: "imdb:tt0113277", Language: "eng", Title: "Heat"}
	if err := cache.Store(ctx, entry); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	got, found := cache.Lookup(ctx, "imdb:tt0113277")
	if !found {
		t.Fatal("expected cache hit")
	}
	if got.Language != "eng" || got.Title != "Heat" {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if got.CachedAt.IsZero() {
		t.Fatal("CachedAt should be populated")
	}

	if _, found := cache.Lookup(ctx, "imdb:tt9999999"); found {
		t.Fatal("expected cache miss")
	}
}

func TestStoreReplacesExisting(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if err := cache.Store(ctx, langcache.Entry{Key: "tmdb:949", Language: "eng"}); err != nil {
		t.Fatal(err)
	}
	if err := cache.Store(ctx, langcache.Entry{Key: "tmdb:949", Language: "fre"}); err != nil {
		t.Fatal(err)
	}

	got, found := cache.Lookup(ctx, "tmdb:949")
	if !found || got.Language != "fre" {
		t.Fatalf("expected replaced entry, got %+v found=%v", got, found)
	}
	count, err := cache.Count(ctx)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 entry, got %d (err=%v)", count, err)
	}
}

func TestListNewestFirst(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	older := time.Now().UTC().Add(-time.Hour)
	if err := cache.Store(ctx, langcache.Entry{Key: "a", Language: "eng", CachedAt: older}); err != nil {
		t.Fatal(err)
	}
	if err := cache.Store(ctx, langcache.Entry{Key: "b", Language: "fre"}); err != nil {
		t.Fatal(err)
	}

	entries, err := cache.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 2 || entries[0].Key != "b" || entries[1].Key != "a" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}

func TestClear(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if err := cache.Store(ctx, langcache.Entry{Key: "a", Language: "eng"}); err != nil {
		t.Fatal(err)
	}
	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	count, err := cache.Count(ctx)
	if err != nil || count != 0 {
		t.Fatalf("expected empty cache, got %d (err=%v)", count, err)
	}
}

func TestDisabledCacheIsNoOp(t *testing.T) {
	cache, err := langcache.Open("", nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	ctx := context.Background()
	if cache.Enabled() {
		t.Fatal("empty path should disable the cache")
	}
	if err := cache.Store(ctx, langcache.Entry{Key: "a", Language: "eng"}); err != nil {
		t.Fatalf("Store on disabled cache should be a no-op: %v", err)
	}
	if _, found := cache.Lookup(ctx, "a"); found {
		t.Fatal("disabled cache should always miss")
	}
}

func TestStoreValidation(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()
	if err := cache.Store(ctx, langcache.Entry{Key: "", Language: "eng"}); err == nil {
		t.Fatal("expected error for empty key")
	}
	if err := cache.Store(ctx, langcache.Entry{Key: "a", Language: " "}); err == nil {
		t.Fatal("expected error for empty language")
	}
}

func TestKeyHelpers(t *testing.T) {
	if got := langcache.KeyForID("imdb", "tt1"); got != "imdb:tt1" {
		t.Fatalf("unexpected key: %q", got)
	}
	if got := langcache.KeyForTitle(" Heat ", 1995); got != "title:heat (1995)" {
		t.Fatalf("unexpected key: %q", got)
	}
	if got := langcache.KeyForTitle("Heat", 0); got != "title:heat" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "languages.db")
	ctx := context.Background()

	first, err := langcache.Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Store(ctx, langcache.Entry{Key: "tmdb:1", Language: "jpn"}); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := langcache.Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = second.Close() })
	if got, found := second.Lookup(ctx, "tmdb:1"); !found || got.Language != "jpn" {
		t.Fatalf("expected persisted entry, got %+v found=%v", got, found)
	}
}
