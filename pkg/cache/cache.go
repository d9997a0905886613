// Package cache provides the artifact cache used by the mutmap pipeline.
//
// Rendered artifacts (graph JSON, DOT, SVG) are keyed by the hash of the
// graph they were rendered from, so an unchanged pedigree, layout and
// variant input never renders twice. Three backends are available:
//
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the API server
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer]; [ScopedKeyer] prefixes them for isolation.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
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
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey keys a rendered artifact of the graph with the given hash.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
	// DocumentKey keys a stored graph document.
	DocumentKey(id string) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<hash of graphHash and opts>".
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

// DocumentKey returns "doc:<id>".
func (DefaultKeyer) DocumentKey(id string) string {
	return fmt.Sprintf("doc:%s", id)
}

// Entry lifetimes.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLDocument = time.Hour
)
