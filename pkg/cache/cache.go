// Package cache stores rendered artifacts keyed by graph content.
//
// Exports are deterministic in the graph and the export options, so the
// pipeline hashes the serialized graph and caches the output bytes under a
// key derived by a [Keyer]. Backends:
//   - [FileCache]: hashed files under a directory, for the CLI
//   - [RedisCache]: shared across API instances
//   - [NullCache]: disables caching
//
// [Instrument] wraps any backend so hits, misses and writes reach the
// observability cache hooks.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLFlow     = time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ExportKey identifies an export of the graph whose serialized form
	// hashes to graphHash.
	ExportKey(graphHash string, opts ExportKeyOpts) string
}

// ExportKeyOpts are the export options that change the output bytes.
type ExportKeyOpts struct {
	Format    string `json:"format"`
	ShowEdges bool   `json:"show_edges"`
	Detailed  bool   `json:"detailed"`
}

// DefaultKeyer produces "export:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ExportKey implements Keyer.
func (DefaultKeyer) ExportKey(graphHash string, opts ExportKeyOpts) string {
	return hashKey("export", graphHash, opts)
}
