package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/ruixin/snapsolve/internal/storage"
)

// liveHost serves HEAD probes, returning 404 for paths in dead.
func liveHost(t *testing.T, dead map[string]bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if dead[r.URL.Path] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCacheURLRoundTrip(t *testing.T) {
	ctx := context.Background()
	srv := liveHost(t, nil)
	cache := New(storage.NewMemoryStore(), srv.Client())

	uri := "data:image/png;base64,AAAA"
	if err := cache.CacheURL(ctx, uri, srv.URL+"/img/1.png"); err != nil {
		t.Fatal(err)
	}

	entry, err := cache.CachedURL(ctx, uri)
	if err != nil {
		t.Fatal(err)
	}
	if entry == nil {
		t.Fatal("expected cache hit")
	}
	if entry.UploadedURL != srv.URL+"/img/1.png" {
		t.Errorf("UploadedURL = %q", entry.UploadedURL)
	}
	if entry.OriginalURI != uri {
		t.Errorf("OriginalURI = %q", entry.OriginalURI)
	}
}

func TestCacheURLIdempotent(t *testing.T) {
	ctx := context.Background()
	srv := liveHost(t, nil)
	store := storage.NewMemoryStore()
	cache := New(store, srv.Client())

	uri := "data:image/png;base64,BBBB"
	if err := cache.CacheURL(ctx, uri, srv.URL+"/img/old.png"); err != nil {
		t.Fatal(err)
	}
	if err := cache.CacheURL(ctx, uri, srv.URL+"/img/new.png"); err != nil {
		t.Fatal(err)
	}

	// Exactly one entry for the hash.
	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 {
		t.Fatalf("expected 1 cache key, got %v", keys)
	}

	entry, err := cache.CachedURL(ctx, uri)
	if err != nil || entry == nil {
		t.Fatalf("CachedURL: entry=%v err=%v", entry, err)
	}
	if entry.UploadedURL != srv.URL+"/img/new.png" {
		t.Errorf("expected last write to win, got %q", entry.UploadedURL)
	}
}

func TestCachedURLMiss(t *testing.T) {
	ctx := context.Background()
	cache := New(storage.NewMemoryStore(), nil)

	entry, err := cache.CachedURL(ctx, "data:image/png;base64,CCCC")
	if err != nil {
		t.Fatal(err)
	}
	if entry != nil {
		t.Fatalf("expected miss, got %+v", entry)
	}
}

func TestCachedURLEvictsDeadUpload(t *testing.T) {
	ctx := context.Background()
	srv := liveHost(t, map[string]bool{"/img/gone.png": true})
	store := storage.NewMemoryStore()
	cache := New(store, srv.Client())

	uri := "data:image/png;base64,DDDD"
	if err := cache.CacheURL(ctx, uri, srv.URL+"/img/gone.png"); err != nil {
		t.Fatal(err)
	}

	entry, err := cache.CachedURL(ctx, uri)
	if err != nil {
		t.Fatal(err)
	}
	if entry != nil {
		t.Fatal("expected dead upload to miss")
	}

	// Entry is evicted, not just skipped.
	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Errorf("expected eviction, keys = %v", keys)
	}
}

func TestCachedURLEvictsExpired(t *testing.T) {
	ctx := context.Background()
	srv := liveHost(t, nil)
	store := storage.NewMemoryStore()
	cache := New(store, srv.Client())

	uri := "data:image/png;base64,EEEE"
	hash := hashURI(uri)

	// Write an entry older than the TTL directly.
	old := Entry{
		Hash:        hash,
		OriginalURI: uri,
		UploadedURL: srv.URL + "/img/old.png",
		Timestamp:   time.Now().Add(-TTL - time.Hour).UnixMilli(),
	}
	if err := store.SetItem(ctx, cacheKey(hash), old); err != nil {
		t.Fatal(err)
	}

	entry, err := cache.CachedURL(ctx, uri)
	if err != nil {
		t.Fatal(err)
	}
	if entry != nil {
		t.Fatal("expected expired entry to miss")
	}
	if keys, _ := store.Keys(ctx); len(keys) != 0 {
		t.Errorf("expected expired entry evicted, keys = %v", keys)
	}
}

func TestClearExpired(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	cache := New(store, nil)

	fresh := Entry{Hash: "f", UploadedURL: "https://img.example/f.png", Timestamp: time.Now().UnixMilli()}
	stale := Entry{Hash: "s", UploadedURL: "https://img.example/s.png", Timestamp: time.Now().Add(-TTL - time.Minute).UnixMilli()}
	if err := store.SetItem(ctx, cacheKey("f"), fresh); err != nil {
		t.Fatal(err)
	}
	if err := store.SetItem(ctx, cacheKey("s"), stale); err != nil {
		t.Fatal(err)
	}
	// Unrelated keys are untouched.
	if err := store.SetItem(ctx, "chat_1", map[string]any{"id": "chat_1"}); err != nil {
		t.Fatal(err)
	}

	if err := cache.ClearExpired(ctx); err != nil {
		t.Fatal(err)
	}

	var entry Entry
	if found, _ := store.GetItem(ctx, cacheKey("f"), &entry); !found {
		t.Error("fresh entry should survive the sweep")
	}
	if found, _ := store.GetItem(ctx, cacheKey("s"), &entry); found {
		t.Error("stale entry should be removed")
	}
	var rec map[string]any
	if found, _ := store.GetItem(ctx, "chat_1", &rec); !found {
		t.Error("non-cache keys must not be touched")
	}
}

func TestHashFileContent(t *testing.T) {
	// Hashing a local file must use its bytes: two files with the same
	// content share a hash regardless of path.
	dir := t.TempDir()
	a := dir + "/a.png"
	b := dir + "/b.png"
	for _, p := range []string{a, b} {
		if err := writeFile(p, []byte("same-bytes")); err != nil {
			t.Fatal(err)
		}
	}

	if hashURI(a) != hashURI(b) {
		t.Error("identical file content should hash identically")
	}
	if hashURI(a) == hashURI("data:other") {
		t.Error("different content should not collide")
	}
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}
