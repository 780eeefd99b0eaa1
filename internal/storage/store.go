// Package storage provides the key-value persistence contract and its
// backends. All durable state (session records, messages, the session
// counter, image-cache entries) goes through a Store.
package storage

import (
	"context"
	"fmt"
)

// Store is an asynchronous string-keyed blob store with JSON-serializable
// values. It guarantees atomic single-key reads and writes but no cross-key
// transactions; callers order their writes accordingly.
type Store interface {
	// GetItem decodes the value at key into out. It reports whether the key
	// exists; a missing key is not an error.
	GetItem(ctx context.Context, key string, out any) (bool, error)

	// SetItem stores value at key, overwriting any previous value.
	SetItem(ctx context.Context, key string, value any) error

	// RemoveItem deletes key. Removing a missing key is a no-op.
	RemoveItem(ctx context.Context, key string) error

	// Keys returns every stored key, in no particular order.
	Keys(ctx context.Context) ([]string, error)
}

// Persisted key layout.
const (
	// ChatPrefix prefixes session record keys: "chat_" + index.
	ChatPrefix = "chat_"

	// ChatIndexKey holds the monotonic session counter.
	ChatIndexKey = "chat_idx"

	// ImageCachePrefix prefixes image-cache entries: "imgcache_" + hash.
	ImageCachePrefix = "imgcache_"
)

// SessionKey returns the storage key of the session at the given index.
func SessionKey(idx int) string {
	return fmt.Sprintf("%s%d", ChatPrefix, idx)
}

// MessageKey returns the storage key of the seq-th message of a session.
func MessageKey(sessionKey string, seq int) string {
	return fmt.Sprintf("%s_msg_%d", sessionKey, seq)
}
