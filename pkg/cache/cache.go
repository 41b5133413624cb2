// Package cache stores precheck results keyed by the normalized design.
//
// A precheck is a pure function of the normalized design and the sentinel
// extreme, so its report can be reused across runs. Three backends share the
// [Cache] interface:
//
//   - [FileCache]: one JSON file per entry under the user cache directory (CLI)
//   - [RedisCache]: a shared Redis instance (HTTP service)
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer]; [ScopedKeyer] prefixes them so several
// tenants or tool versions can share one backend.
package cache

import (
	"context"
	"time"
)

// Cache entry lifetimes.
const (
	// TTLReport is how long a precheck report stays valid.
	TTLReport = 7 * 24 * time.Hour

	// TTLTopology is how long a rendered topology graph stays valid.
	TTLTopology = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by the cache.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// ReportKeyOpts are the inputs besides the design that change a report.
type ReportKeyOpts struct {
	Extreme  float64 `json:"extreme"`
	Detector string  `json:"detector,omitempty"`
	Version  string  `json:"version,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ReportKey is the key of the precheck report of a design.
	ReportKey(designHash string, opts ReportKeyOpts) string

	// TopologyKey is the key of the rendered topology graph of a design.
	TopologyKey(designHash, format string) string
}

// DefaultKeyer produces namespaced, hashed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReportKey implements Keyer.
func (DefaultKeyer) ReportKey(designHash string, opts ReportKeyOpts) string {
	return hashKey("report", designHash, opts)
}

// TopologyKey implements Keyer.
func (DefaultKeyer) TopologyKey(designHash, format string) string {
	return hashKey("topology", designHash, format)
}
