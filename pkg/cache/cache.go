// Package cache stores validation results and computed layouts so that
// repeated requests for the same diagram skip the work.
//
// Three backends share the [Cache] interface:
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps entries as files under a directory (CLI)
//   - [RedisCache] shares entries between server instances
//
// Keys are produced by a [Keyer] from a content hash of the diagram plus
// the options that influence the cached value.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Default entry lifetimes.
const (
	ValidationTTL = 24 * time.Hour
	LayoutTTL     = 7 * 24 * time.Hour
)
