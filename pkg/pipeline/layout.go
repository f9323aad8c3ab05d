package pipeline

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/graphpos/pkg/cache"
	"github.com/matzehuels/graphpos/pkg/errors"
	"github.com/matzehuels/graphpos/pkg/graph"
	"github.com/matzehuels/graphpos/pkg/layered"
	"github.com/matzehuels/graphpos/pkg/observability"
)

// Layout validates g and opts, then returns the layered layout, from the
// cache when possible.
//
// Errors are coded: INVALID_GRAPH for empty or duplicate node IDs,
// INVALID_DIRECTION, INVALID_ALIGNMENT and INVALID_OPTIONS for bad options,
// CANCELED and TIMEOUT when ctx ends before the engine runs.
func (r *Runner) Layout(ctx context.Context, g graph.Graph, opts LayoutOptions) (res *LayoutResult, err error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	hash, err := graphHash(g)
	if err != nil {
		return nil, err
	}

	runID := newRunID()
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, runID, len(g.Nodes), len(g.Edges))
	defer func() {
		var ranks, crossings int
		if res != nil {
			ranks, crossings = len(res.Layers), res.Crossings
		}
		observability.Layout().OnLayoutComplete(ctx, runID, ranks, crossings, time.Since(start), err)
	}()

	eng := opts.Engine()
	key := r.Keyer.LayoutKey(hash, cache.LayoutKeyOpts{
		Direction:   string(eng.Direction),
		Alignment:   string(eng.Alignment),
		NodeSpacing: eng.NodeSpacing,
		RankSpacing: eng.RankSpacing,
		NodeWidth:   eng.NodeWidth,
		NodeHeight:  eng.NodeHeight,
	})

	if !opts.Refresh {
		var cached LayoutResult
		if r.lookup(ctx, "layout", key, &cached) {
			cached.RunID = runID
			cached.CacheHit = true
			cached.Duration = time.Since(start)
			r.Logger.Debug("layout cache hit", "run", runID, "graph", hash[:12])
			return &cached, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.FromContext(err)
	}

	out := layered.Compute(g.Nodes, g.Edges, eng)
	res = &LayoutResult{
		RunID:     runID,
		GraphHash: hash,
		Nodes:     out.Nodes,
		Ranks:     out.Ranks,
		Layers:    out.Layers,
		BackEdges: out.BackEdges,
		Crossings: out.Crossings,
		Duration:  time.Since(start),
	}
	if res.Nodes == nil {
		res.Nodes = []graph.Node{}
	}
	if res.Layers == nil {
		res.Layers = [][]string{}
	}
	r.store(ctx, "layout", key, res, r.LayoutTTL)

	r.Logger.Info("computed layout",
		"run", runID,
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"ranks", len(res.Layers),
		"back_edges", len(res.BackEdges),
		"crossings", res.Crossings,
		"duration", res.Duration)
	return res, nil
}

// LayoutBatch lays out independent graphs concurrently with the same
// options. Results keep the input order. The first error cancels the
// remaining runs and is returned.
func (r *Runner) LayoutBatch(ctx context.Context, graphs []graph.Graph, opts LayoutOptions) ([]*LayoutResult, error) {
	results := make([]*LayoutResult, len(graphs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, g := range graphs {
		eg.Go(func() error {
			res, err := r.Layout(ctx, g, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
