// Package cache stores rendered charts and computed layouts between runs.
//
// # Backends
//
//   - [NullCache]: stores nothing; the default when caching is disabled
//   - [FileCache]: JSON envelopes under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//
// # Keys
//
// Keys are produced by a [Keyer] from a content hash of the identity map and
// the options that influence the result, so changing any chart option yields
// a distinct entry:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(cache.Hash(data), cache.ArtifactKeyOpts{Format: "svg"})
//
// [ScopedKeyer] adds a prefix, which the server uses to namespace Redis.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLDrill    = time.Hour
)

// =============================================================================
// Keys
// =============================================================================

// LayoutKeyOpts holds the options that change a computed layout.
type LayoutKeyOpts struct {
	Role   string     `json:"role"`
	Mode   string     `json:"mode"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Margin [4]float64 `json:"margin"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Interactive bool    `json:"interactive,omitempty"`
	Title       string  `json:"title,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey keys the layout computed from a dataset hash.
	LayoutKey(dataHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys an artifact rendered from a layout hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string

	// DrillKey keys the detail map generated for category with seed.
	DrillKey(category string, seed uint64) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", dataHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// DrillKey implements [Keyer].
func (DefaultKeyer) DrillKey(category string, seed uint64) string {
	return hashKey("drill", category, seed)
}

// KeyType returns the prefix of a key produced by [DefaultKeyer], ignoring
// any scope. It labels cache metrics.
func KeyType(key string) string {
	for _, t := range []string{"layout", "artifact", "drill"} {
		if strings.Contains(key, t+":") {
			return t
		}
	}
	return "other"
}
