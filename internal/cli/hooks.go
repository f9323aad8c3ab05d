package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphpos/pkg/observability"
)

// logHooks reports pipeline, cache and HTTP events at debug level.
type logHooks struct {
	logger *log.Logger
}

// EnableDebugHooks registers hooks that log every observability event.
// main calls it for --verbose runs.
func (c *CLI) EnableDebugHooks() {
	h := logHooks{logger: c.Logger.WithPrefix("hooks")}
	observability.Register(observability.Hooks{Layout: h, Simulation: h, Cache: h, HTTP: h})
}

func (h logHooks) OnLayoutStart(_ context.Context, runID string, nodes, edges int) {
	h.logger.Debug("layout start", "run", runID, "nodes", nodes, "edges", edges)
}

func (h logHooks) OnLayoutComplete(_ context.Context, runID string, ranks, crossings int, dur time.Duration, err error) {
	h.logger.Debug("layout complete", "run", runID, "ranks", ranks, "crossings", crossings, "duration", dur, "err", err)
}

func (h logHooks) OnSimulationStart(_ context.Context, runID string, nodes, edges int) {
	h.logger.Debug("simulation start", "run", runID, "nodes", nodes, "edges", edges)
}

func (h logHooks) OnSimulationComplete(_ context.Context, runID string, ticks int, settled bool, dur time.Duration, err error) {
	h.logger.Debug("simulation complete", "run", runID, "ticks", ticks, "settled", settled, "duration", dur, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, dur time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", dur)
}

var (
	_ observability.LayoutHooks     = logHooks{}
	_ observability.SimulationHooks = logHooks{}
	_ observability.CacheHooks      = logHooks{}
	_ observability.HTTPHooks       = logHooks{}
)
