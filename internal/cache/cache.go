// Package cache stores compiled PDF artifacts keyed by a hash of everything
// that determines them: the assembled document source and its assets.
//
// Backends:
//   - NullCache: caching disabled (default)
//   - FileCache: one file per entry in a local directory, for the CLI
//   - RedisCache: shared cache for the HTTP service (go-redis)
//
// Callers treat every cache error as a miss; a broken cache never fails a
// conversion.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// KeyPrefix namespaces artifact keys in shared stores.
const KeyPrefix = "cheatmark:pdf"

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Close releases backend resources.
	Close() error
}

// Key returns KeyPrefix:<sha256> over parts. Each part is length-prefixed,
// so ("ab","c") and ("a","bc") hash differently.
func Key(parts ...[]byte) string {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write(p)
	}
	return KeyPrefix + ":" + hex.EncodeToString(h.Sum(nil))
}
