package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/graphpos/pkg/cache"
	"github.com/matzehuels/graphpos/pkg/errors"
	"github.com/matzehuels/graphpos/pkg/force"
	"github.com/matzehuels/graphpos/pkg/graph"
	"github.com/matzehuels/graphpos/pkg/layered"
	"github.com/matzehuels/graphpos/pkg/observability"
)

// Simulate relaxes g headlessly and returns the final positions.
//
// The simulation is driven by a ManualScheduler on the calling goroutine
// until it settles, MaxTicks frames have run, or ctx ends. In the last case
// the simulation is stopped and a CANCELED or TIMEOUT error is returned.
// Runs are deterministic, so results are cached by graph and options.
func (r *Runner) Simulate(ctx context.Context, g graph.Graph, opts SimulateOptions) (res *SimulateResult, err error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	hash, err := graphHash(g)
	if err != nil {
		return nil, err
	}
	params, err := json.Marshal(force.DefaultOptions().Apply(opts.Force))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode force options")
	}
	key := r.Keyer.SimulationKey(hash, cache.SimulationKeyOpts{
		Params:   string(params),
		MaxTicks: opts.maxTicks(),
		Seeded:   opts.InitialLayout,
	})

	runID := newRunID()
	start := time.Now()
	observability.Simulation().OnSimulationStart(ctx, runID, len(g.Nodes), len(g.Edges))
	defer func() {
		var ticks int
		var settled bool
		if res != nil {
			ticks, settled = res.Ticks, res.Settled
		}
		observability.Simulation().OnSimulationComplete(ctx, runID, ticks, settled, time.Since(start), err)
	}()

	if !opts.Refresh {
		var cached SimulateResult
		if r.lookup(ctx, "simulation", key, &cached) {
			cached.RunID = runID
			cached.CacheHit = true
			cached.Duration = time.Since(start)
			r.Logger.Debug("simulation cache hit", "run", runID, "graph", hash[:12])
			return &cached, nil
		}
	}

	sched := force.NewManualScheduler()
	sim := NewSimulation(g, opts, sched)
	sim.Start(nil)

	for ticks, budget := 0, opts.maxTicks(); sim.Running() && ticks < budget; ticks++ {
		if err := ctx.Err(); err != nil {
			sim.Stop()
			return nil, errors.FromContext(err)
		}
		sched.Step()
	}
	sim.Stop()

	res = newSimulateResult(runID, hash, g, sim.State(), start)
	r.store(ctx, "simulation", key, res, r.SimulationTTL)

	r.Logger.Info("simulated",
		"run", runID,
		"nodes", len(g.Nodes),
		"ticks", res.Ticks,
		"alpha", res.Alpha,
		"settled", res.Settled,
		"duration", res.Duration)
	return res, nil
}

// Stream runs the simulation on a FrameScheduler at opts.FPS and passes a
// Frame to emit every opts.Every ticks, plus a final frame when the run
// ends. An error from emit stops the run and is returned unchanged.
// Streams are never cached.
func (r *Runner) Stream(ctx context.Context, g graph.Graph, opts StreamOptions, emit func(Frame) error) (res *SimulateResult, err error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	hash, err := graphHash(g)
	if err != nil {
		return nil, err
	}
	fps, every := opts.FPS, opts.Every
	if fps == 0 {
		fps = DefaultStreamFPS
	}
	if every == 0 {
		every = DefaultStreamEvery
	}

	runID := newRunID()
	start := time.Now()
	observability.Simulation().OnSimulationStart(ctx, runID, len(g.Nodes), len(g.Edges))
	defer func() {
		var ticks int
		var settled bool
		if res != nil {
			ticks, settled = res.Ticks, res.Settled
		}
		observability.Simulation().OnSimulationComplete(ctx, runID, ticks, settled, time.Since(start), err)
	}()

	sched := force.NewFrameScheduler(fps)
	sim := NewSimulation(g, opts.SimulateOptions, sched)
	budget := opts.maxTicks()

	var emitErr error
	var last force.State
	sim.Start(func(st force.State) {
		last = st
		done := st.Settled() || st.Ticks >= budget
		if done {
			sim.Stop()
		}
		if st.Ticks%every != 0 && !done {
			return
		}
		if emitErr = emit(newFrame(st)); emitErr != nil {
			sim.Stop()
		}
	})

	runErr := sched.RunUntilIdle(ctx)
	sim.Stop()
	if emitErr != nil {
		return nil, emitErr
	}
	if runErr != nil {
		return nil, errors.FromContext(runErr)
	}

	res = newSimulateResult(runID, hash, g, last, start)
	r.Logger.Info("streamed simulation",
		"run", runID,
		"nodes", len(g.Nodes),
		"ticks", res.Ticks,
		"fps", fps,
		"settled", res.Settled,
		"duration", res.Duration)
	return res, nil
}

// NewSimulation builds an idle simulation over g. With InitialLayout set,
// Auto nodes are first placed by the layered engine. The anchor node, if
// any, is pinned at the configured center for the whole run.
func NewSimulation(g graph.Graph, opts SimulateOptions, sched force.Scheduler) *force.Simulation {
	nodes := g.Nodes
	if opts.InitialLayout {
		nodes = layered.Layout(nodes, g.Edges, layered.DefaultOptions())
	}
	sim := force.New(opts.Force, sched)
	sim.SetNodes(nodes)
	sim.SetEdges(g.Edges)
	o := sim.Options()
	sim.SyncAnchor(o.CenterX, o.CenterY)
	return sim
}

func newSimulateResult(runID, hash string, g graph.Graph, st force.State, start time.Time) *SimulateResult {
	nodes := st.Apply(g.Nodes)
	if nodes == nil {
		nodes = []graph.Node{}
	}
	return &SimulateResult{
		RunID:     runID,
		GraphHash: hash,
		Nodes:     nodes,
		Ticks:     st.Ticks,
		Alpha:     st.Alpha,
		Settled:   st.Settled(),
		Duration:  time.Since(start),
	}
}

func newFrame(st force.State) Frame {
	return Frame{
		Tick:      st.Ticks,
		Alpha:     st.Alpha,
		Settled:   st.Settled(),
		Positions: st.Positions(),
	}
}
