// Package observability lets a host watch engine runs without the engines
// knowing about it.
//
// The pipeline and the HTTP service report four kinds of events: layered
// layout runs, headless simulation runs, cache traffic and served requests.
// Each kind has its own interface. A process registers one [Hooks] set at
// startup; anything left nil stays a no-op.
//
//	observability.Register(observability.Hooks{
//	    Layout: myMetrics,
//	    Cache:  myMetrics,
//	})
//
// The layered and force packages never call hooks themselves.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// LayoutHooks receives layered layout runs.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, runID string, nodeCount, edgeCount int)
	OnLayoutComplete(ctx context.Context, runID string, ranks, crossings int, duration time.Duration, err error)
}

// SimulationHooks receives headless and streamed force simulation runs.
type SimulationHooks interface {
	OnSimulationStart(ctx context.Context, runID string, nodeCount, linkCount int)
	OnSimulationComplete(ctx context.Context, runID string, ticks int, settled bool, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is "layout" or
// "simulation".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives requests served by the API.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// Hooks is one registration. Nil fields are no-ops.
type Hooks struct {
	Layout     LayoutHooks
	Simulation SimulationHooks
	Cache      CacheHooks
	HTTP       HTTPHooks
}

// withDefaults fills nil fields with Noop.
func (h Hooks) withDefaults() Hooks {
	if h.Layout == nil {
		h.Layout = Noop{}
	}
	if h.Simulation == nil {
		h.Simulation = Noop{}
	}
	if h.Cache == nil {
		h.Cache = Noop{}
	}
	if h.HTTP == nil {
		h.HTTP = Noop{}
	}
	return h
}

// Noop implements every hook interface and does nothing.
type Noop struct{}

func (Noop) OnLayoutStart(context.Context, string, int, int)                               {}
func (Noop) OnLayoutComplete(context.Context, string, int, int, time.Duration, error)      {}
func (Noop) OnSimulationStart(context.Context, string, int, int)                           {}
func (Noop) OnSimulationComplete(context.Context, string, int, bool, time.Duration, error) {}
func (Noop) OnCacheHit(context.Context, string)                                            {}
func (Noop) OnCacheMiss(context.Context, string)                                           {}
func (Noop) OnCacheSet(context.Context, string, int)                                       {}
func (Noop) OnRequest(context.Context, string, string)                                     {}
func (Noop) OnResponse(context.Context, string, string, int, time.Duration)                {}

var current atomic.Pointer[Hooks]

func init() { Reset() }

// Register replaces the active hooks. Hooks already fetched by an in-flight
// run keep receiving that run's events.
func Register(h Hooks) {
	h = h.withDefaults()
	current.Store(&h)
}

// Reset restores the no-op hooks.
func Reset() { Register(Hooks{}) }

// Current returns the active hooks with every field set.
func Current() Hooks { return *current.Load() }

// Layout returns the active layout hooks.
func Layout() LayoutHooks { return current.Load().Layout }

// Simulation returns the active simulation hooks.
func Simulation() SimulationHooks { return current.Load().Simulation }

// Cache returns the active cache hooks.
func Cache() CacheHooks { return current.Load().Cache }

// HTTP returns the active HTTP hooks.
func HTTP() HTTPHooks { return current.Load().HTTP }

var (
	_ LayoutHooks     = Noop{}
	_ SimulationHooks = Noop{}
	_ CacheHooks      = Noop{}
	_ HTTPHooks       = Noop{}
)
