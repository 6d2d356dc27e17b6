// Package cache stores rendered artifacts keyed by layout content and
// render options.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for a shared service cache, and [NullCache] when caching is disabled.
// Keys come from a [Keyer] so callers never build key strings by hand:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(cache.Hash(layoutJSON), cache.ArtifactKeyOpts{Format: "svg"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Default lifetimes.
const (
	// TTLArtifact is how long a rendered artifact stays valid. Artifacts are
	// pure functions of their key, so the TTL only bounds disk usage.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLService is the lifetime used by the HTTP service.
	TTLService = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value and whether it was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	PixelWidth int     `json:"pixel_width"`
	Padding    float64 `json:"padding"`
	Background string  `json:"background,omitempty"`
	Pivots     bool    `json:"pivots,omitempty"`
	EmbedFont  bool    `json:"embed_font,omitempty"`
	Title      string  `json:"title,omitempty"`

	// Style is a fingerprint of the keycap style, see [Fingerprint].
	Style string `json:"style"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key for a layout (by content hash) rendered
	// with opts.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
