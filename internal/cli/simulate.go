package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/graphpos/pkg/force"
	"github.com/matzehuels/graphpos/pkg/graph"
	"github.com/matzehuels/graphpos/pkg/pipeline"
)

// forceFlags holds the force parameter flags. Only flags set on the
// command line override the configuration.
type forceFlags struct {
	maxTicks      int
	initialLayout bool

	linkDistance    float64
	linkStrength    float64
	charge          float64
	collisionRadius float64
	centerStrength  float64
	centerX         float64
	centerY         float64
	alphaDecay      float64
	velocityDecay   float64
	anchor          string
	seed            int64
}

// register adds the force flags; headless adds the tick budget too.
func (ff *forceFlags) register(fs *pflag.FlagSet, headless bool) {
	d := force.DefaultOptions()
	if headless {
		fs.IntVar(&ff.maxTicks, "max-ticks", pipeline.DefaultMaxTicks, "tick budget")
	}
	fs.BoolVar(&ff.initialLayout, "initial-layout", false, "start unplaced nodes from a layered layout")
	fs.Float64Var(&ff.linkDistance, "link-distance", d.LinkDistance, "rest length of links")
	fs.Float64Var(&ff.linkStrength, "link-strength", d.LinkStrength, "spring stiffness of links")
	fs.Float64Var(&ff.charge, "charge", d.ChargeStrength, "pairwise charge strength (negative repels)")
	fs.Float64Var(&ff.collisionRadius, "collision-radius", d.CollisionRadius, "minimum node radius")
	fs.Float64Var(&ff.centerStrength, "center-strength", d.CenterStrength, "pull toward the center")
	fs.Float64Var(&ff.centerX, "center-x", d.CenterX, "center x coordinate")
	fs.Float64Var(&ff.centerY, "center-y", d.CenterY, "center y coordinate")
	fs.Float64Var(&ff.alphaDecay, "alpha-decay", d.AlphaDecay, "energy decay per tick")
	fs.Float64Var(&ff.velocityDecay, "velocity-decay", d.VelocityDecay, "velocity friction per tick")
	fs.StringVar(&ff.anchor, "anchor", "", "node pinned to the center")
	fs.Int64Var(&ff.seed, "seed", d.Seed, "seed of the separation noise")
}

func (ff *forceFlags) apply(fs *pflag.FlagSet, opts *pipeline.SimulateOptions) {
	if fs.Changed("max-ticks") {
		opts.MaxTicks = ff.maxTicks
	}
	if fs.Changed("initial-layout") {
		opts.InitialLayout = ff.initialLayout
	}
	floats := []struct {
		name string
		dst  **float64
		v    float64
	}{
		{"link-distance", &opts.Force.LinkDistance, ff.linkDistance},
		{"link-strength", &opts.Force.LinkStrength, ff.linkStrength},
		{"charge", &opts.Force.ChargeStrength, ff.charge},
		{"collision-radius", &opts.Force.CollisionRadius, ff.collisionRadius},
		{"center-strength", &opts.Force.CenterStrength, ff.centerStrength},
		{"center-x", &opts.Force.CenterX, ff.centerX},
		{"center-y", &opts.Force.CenterY, ff.centerY},
		{"alpha-decay", &opts.Force.AlphaDecay, ff.alphaDecay},
		{"velocity-decay", &opts.Force.VelocityDecay, ff.velocityDecay},
	}
	for _, f := range floats {
		if fs.Changed(f.name) {
			*f.dst = force.Float(f.v)
		}
	}
	if fs.Changed("anchor") {
		opts.Force.AnchorNodeID = force.String(ff.anchor)
	}
	if fs.Changed("seed") {
		opts.Force.Seed = force.Int(ff.seed)
	}
}

// simulateCommand creates the simulate command for headless force runs.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		output  string
		format  string
		noCache bool
		refresh bool
		stream  bool
		fps     int
		every   int
		flags   forceFlags
	)

	cmd := &cobra.Command{
		Use:   "simulate [graph.json|graph.dot]",
		Short: "Relax a graph with the force simulation",
		Long: `Relax a graph with the force-directed simulation.

Nodes repel each other, links pull their endpoints together, and a weak
force pulls everything toward the center. The simulation cools until it
settles or the tick budget runs out, and the graph is written with the
final positions. Nodes that already carry a position start from it.

With --stream, frames are written as newline-delimited JSON while the
simulation runs, paced at --fps.

Headless results are deterministic and cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.Simulation
			flags.apply(cmd.Flags(), &opts)
			opts.Refresh = refresh
			if err := validateFormat(format); err != nil {
				return err
			}
			if stream {
				sopts := pipeline.StreamOptions{SimulateOptions: opts, FPS: fps, Every: every}
				if err := sopts.Validate(); err != nil {
					return err
				}
				return c.runStream(cmd, args[0], sopts)
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			return c.runSimulate(cmd, args[0], opts, output, format, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.sim.json)")
	cmd.Flags().StringVarP(&format, "format", "f", formatGraph, "output format: graph (default), result")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVar(&stream, "stream", false, "write frames to stdout as NDJSON")
	cmd.Flags().IntVar(&fps, "fps", pipeline.DefaultStreamFPS, "frame rate with --stream")
	cmd.Flags().IntVar(&every, "every", pipeline.DefaultStreamEvery, "emit every Nth frame with --stream")
	flags.register(cmd.Flags(), true)
	registerEnumCompletions(cmd, map[string][]string{"format": {formatGraph, formatResult}})

	return cmd
}

// runSimulate loads the graph, runs the simulation, and writes output.
func (c *CLI) runSimulate(cmd *cobra.Command, input string, opts pipeline.SimulateOptions, output, format string, noCache bool) error {
	ctx := cmd.Context()
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	p := newPrinter(cmd.OutOrStdout())
	sp := newSpinner(ctx, cmd.ErrOrStderr(), "Running simulation...")
	res, err := runner.Simulate(ctx, g, opts)
	sp.Stop()
	if err != nil {
		p.failure("Simulation failed")
		return fmt.Errorf("simulate: %w", err)
	}

	outputPath := outputFor(input, output, ".sim.json")
	var payload any = res
	if format == formatGraph {
		payload = graph.Graph{Nodes: res.Nodes, Edges: g.Edges}
	}
	if err := writeJSON(cmd.OutOrStdout(), outputPath, payload); err != nil {
		return err
	}
	if outputPath == "-" {
		return nil
	}

	p.success("Simulation complete")
	p.file(outputPath)
	p.graphStats(len(g.Nodes), len(g.Edges), res.CacheHit)
	if res.Settled {
		p.detail("settled after %d ticks", res.Ticks)
	} else {
		p.warn("not settled after %d ticks (alpha %.4f); raise --max-ticks", res.Ticks, res.Alpha)
	}
	p.next("Watch", appName+" watch "+input)
	return nil
}

// runStream writes simulation frames to stdout as NDJSON, followed by the
// final result.
func (c *CLI) runStream(cmd *cobra.Command, input string, opts pipeline.StreamOptions) error {
	ctx := cmd.Context()
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	enc := json.NewEncoder(cmd.OutOrStdout())
	res, err := runner.Stream(ctx, g, opts, func(f pipeline.Frame) error {
		return enc.Encode(f)
	})
	if err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	return enc.Encode(res)
}
