// Package cache provides pluggable storage for computed layout and
// simulation results.
//
// Results are stored as opaque bytes under keys derived by a [Keyer]. The
// CLI uses [FileCache], the HTTP service may use [RedisCache], and tests or
// --no-cache runs use [NullCache].
package cache

import (
	"context"
	"time"
)

// Default TTLs per result kind.
const (
	TTLLayout     = 7 * 24 * time.Hour
	TTLSimulation = 24 * time.Hour
)

// Cache stores byte payloads by key.
//
// Get reports a miss with (nil, false, nil); an error means the backend
// itself failed. A ttl of zero on Set means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys for each result kind.
type Keyer interface {
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	SimulationKey(graphHash string, opts SimulationKeyOpts) string
}

// LayoutKeyOpts are the layered options that affect a layout result.
type LayoutKeyOpts struct {
	Direction   string  `json:"direction"`
	Alignment   string  `json:"alignment"`
	NodeSpacing float64 `json:"node_spacing"`
	RankSpacing float64 `json:"rank_spacing"`
	NodeWidth   float64 `json:"node_width"`
	NodeHeight  float64 `json:"node_height"`
}

// SimulationKeyOpts identify a headless simulation run.
// Params is the canonical JSON encoding of the resolved force options;
// Seeded is set when Auto nodes start from a layered layout.
type SimulationKeyOpts struct {
	Params   string `json:"params"`
	MaxTicks int    `json:"max_ticks"`
	Seeded   bool   `json:"seeded"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key derivation.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// SimulationKey returns "simulation:<sha256>".
func (DefaultKeyer) SimulationKey(graphHash string, opts SimulationKeyOpts) string {
	return hashKey("simulation", graphHash, opts)
}

var _ Keyer = DefaultKeyer{}
