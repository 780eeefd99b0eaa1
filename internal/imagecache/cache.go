// Package imagecache maps image content hashes to previously uploaded URLs,
// so identical images reuse one upload. Entries carry a TTL and are
// revalidated against the hosting service before reuse, because hosted URLs
// can be purged server-side independent of the cache's own expiry.
package imagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ruixin/snapsolve/internal/log"
	"github.com/ruixin/snapsolve/internal/storage"
)

// TTL is how long a cached upload stays valid.
const TTL = 7 * 24 * time.Hour

// Entry is one cached upload, keyed by the content hash.
type Entry struct {
	Hash        string `json:"hash"`
	OriginalURI string `json:"originalUri"`
	UploadedURL string `json:"uploadedUrl"`
	Timestamp   int64  `json:"timestamp"`
}

// Cache is a content-addressed upload cache over a key-value store.
type Cache struct {
	store  storage.Store
	client *http.Client
}

// New creates a cache over the given store. A nil client falls back to
// http.DefaultClient for liveness probes.
func New(store storage.Store, client *http.Client) *Cache {
	if client == nil {
		client = http.DefaultClient
	}
	return &Cache{store: store, client: client}
}

func cacheKey(hash string) string {
	return storage.ImageCachePrefix + hash
}

// hashURI computes the content hash of the referenced image: a SHA-256 digest
// of the file bytes when the URI is a readable local file, otherwise of the
// URI string itself (data URIs, remote URLs).
func hashURI(uri string) string {
	sum := sha256.Sum256(contentOf(uri))
	return hex.EncodeToString(sum[:])
}

func contentOf(uri string) []byte {
	if strings.HasPrefix(uri, "data:") || strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return []byte(uri)
	}
	data, err := os.ReadFile(uri)
	if err != nil {
		return []byte(uri)
	}
	return data
}

// isURLValid probes the uploaded URL with a HEAD request.
func (c *Cache) isURLValid(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// CachedURL returns the live, unexpired cache entry for the image at uri, or
// nil. An entry that fails either the liveness probe or the TTL check is
// evicted before returning.
func (c *Cache) CachedURL(ctx context.Context, uri string) (*Entry, error) {
	key := cacheKey(hashURI(uri))

	var entry Entry
	found, err := c.store.GetItem(ctx, key, &entry)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	if !found {
		return nil, nil
	}

	age := time.Duration(time.Now().UnixMilli()-entry.Timestamp) * time.Millisecond
	if age < TTL && c.isURLValid(ctx, entry.UploadedURL) {
		return &entry, nil
	}

	// Stale or dead upstream; evict.
	log.LogStore("evict", key)
	if err := c.store.RemoveItem(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to evict cache entry: %w", err)
	}
	return nil, nil
}

// CacheURL records an upload for the image at uri. A prior entry for the same
// content is overwritten; uploads are idempotent for identical content, so
// last-write-wins.
func (c *Cache) CacheURL(ctx context.Context, uri, uploadedURL string) error {
	hash := hashURI(uri)
	entry := Entry{
		Hash:        hash,
		OriginalURI: uri,
		UploadedURL: uploadedURL,
		Timestamp:   time.Now().UnixMilli(),
	}
	if err := c.store.SetItem(ctx, cacheKey(hash), entry); err != nil {
		return fmt.Errorf("failed to cache upload: %w", err)
	}
	return nil
}

// ClearExpired sweeps every cache entry older than the TTL, regardless of
// liveness. This is a maintenance operation; nothing invokes it automatically.
func (c *Cache) ClearExpired(ctx context.Context) error {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	now := time.Now().UnixMilli()
	for _, key := range keys {
		if !strings.HasPrefix(key, storage.ImageCachePrefix) {
			continue
		}
		var entry Entry
		found, err := c.store.GetItem(ctx, key, &entry)
		if err != nil || !found {
			continue
		}
		if time.Duration(now-entry.Timestamp)*time.Millisecond >= TTL {
			if err := c.store.RemoveItem(ctx, key); err != nil {
				return fmt.Errorf("failed to remove %s: %w", key, err)
			}
		}
	}
	return nil
}
