package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/graphpos/pkg/errors"
	"github.com/matzehuels/graphpos/pkg/graph"
	"github.com/matzehuels/graphpos/pkg/pipeline"
)

// Output formats for layout and simulate.
const (
	formatGraph  = "graph"
	formatResult = "result"
)

// layoutFlags holds the layout flags. Only flags set on the command line
// override the configuration.
type layoutFlags struct {
	direction   string
	alignment   string
	nodeSpacing float64
	rankSpacing float64
	nodeWidth   float64
	nodeHeight  float64
}

func (lf *layoutFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&lf.direction, "direction", "d", "", "rank direction: TB (default), BT, LR, RL")
	fs.StringVarP(&lf.alignment, "alignment", "a", "", "cross-axis alignment: center (default), start, end")
	fs.Float64Var(&lf.nodeSpacing, "node-spacing", 0, "gap between nodes in a rank (default 50)")
	fs.Float64Var(&lf.rankSpacing, "rank-spacing", 0, "distance between ranks (default 100)")
	fs.Float64Var(&lf.nodeWidth, "node-width", 0, "width of nodes without one (default 150)")
	fs.Float64Var(&lf.nodeHeight, "node-height", 0, "height of nodes without one (default 50)")
}

func (lf *layoutFlags) apply(fs *pflag.FlagSet, opts *pipeline.LayoutOptions) {
	if fs.Changed("direction") {
		opts.Direction = strings.ToUpper(lf.direction)
	}
	if fs.Changed("alignment") {
		opts.Alignment = strings.ToLower(lf.alignment)
	}
	if fs.Changed("node-spacing") {
		opts.NodeSpacing = lf.nodeSpacing
	}
	if fs.Changed("rank-spacing") {
		opts.RankSpacing = lf.rankSpacing
	}
	if fs.Changed("node-width") {
		opts.NodeWidth = lf.nodeWidth
	}
	if fs.Changed("node-height") {
		opts.NodeHeight = lf.nodeHeight
	}
}

// layoutCommand creates the layout command for computing layered layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		format  string
		noCache bool
		refresh bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json|graph.dot]...",
		Short: "Compute a layered layout",
		Long: `Compute a layered (Sugiyama-style) layout.

The layout command reads graphs as JSON or Graphviz DOT, assigns each node a
rank and a slot within its rank, and writes the graph with every node
positioned. Nodes that already carry a position keep it.

With --format result the full result is written instead, including ranks,
layers, reversed back edges and the crossing count.

Several inputs are laid out concurrently; each result is written next to
its input. Results are cached for faster subsequent runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.Layout
			flags.apply(cmd.Flags(), &opts)
			opts.Refresh = refresh
			if err := opts.Validate(); err != nil {
				return err
			}
			if err := validateFormat(format); err != nil {
				return err
			}
			if len(args) > 1 {
				if output != "" {
					return errors.New(errors.ErrCodeInvalidInput, "--output cannot be used with several inputs")
				}
				return c.runLayoutBatch(cmd, args, opts, format, noCache)
			}
			return c.runLayout(cmd, args[0], opts, output, format, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&format, "format", "f", formatGraph, "output format: graph (default), result")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached result exists")
	flags.register(cmd.Flags())
	registerEnumCompletions(cmd, map[string][]string{
		"direction": {"TB", "BT", "LR", "RL"},
		"alignment": {"center", "start", "end"},
		"format":    {formatGraph, formatResult},
	})

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(cmd *cobra.Command, input string, opts pipeline.LayoutOptions, output, format string, noCache bool) error {
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
	sp := newSpinner(ctx, cmd.ErrOrStderr(), "Computing layout...")
	res, err := runner.Layout(ctx, g, opts)
	sp.Stop()
	if err != nil {
		p.failure("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}

	outputPath := outputFor(input, output, ".layout.json")
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

	p.success("Layout complete")
	p.file(outputPath)
	p.graphStats(len(g.Nodes), len(g.Edges), res.CacheHit)
	p.detail("%d ranks · %d crossings · %d back edges", len(res.Layers), res.Crossings, len(res.BackEdges))
	p.next("Relax", appName+" simulate "+outputPath)
	return nil
}

// runLayoutBatch lays out several graphs concurrently and writes each
// result next to its input.
func (c *CLI) runLayoutBatch(cmd *cobra.Command, inputs []string, opts pipeline.LayoutOptions, format string, noCache bool) error {
	ctx := cmd.Context()
	graphs := make([]graph.Graph, len(inputs))
	for i, input := range inputs {
		g, err := graph.ReadGraphFile(input)
		if err != nil {
			return fmt.Errorf("load graph %s: %w", input, err)
		}
		graphs[i] = g
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	p := newPrinter(cmd.OutOrStdout())
	prog := newProgress(c.Logger)
	sp := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Computing %d layouts...", len(inputs)))
	results, err := runner.LayoutBatch(ctx, graphs, opts)
	sp.Stop()
	if err != nil {
		p.failure("Layout failed")
		return fmt.Errorf("compute layouts: %w", err)
	}

	rows := make([][]string, len(inputs))
	hits := 0
	for i, res := range results {
		outputPath := outputFor(inputs[i], "", ".layout.json")
		var payload any = res
		if format == formatGraph {
			payload = graph.Graph{Nodes: res.Nodes, Edges: graphs[i].Edges}
		}
		if err := writeJSON(cmd.OutOrStdout(), outputPath, payload); err != nil {
			return err
		}
		if res.CacheHit {
			hits++
		}
		rows[i] = []string{
			outputPath,
			fmt.Sprint(len(res.Nodes)),
			fmt.Sprint(len(res.Layers)),
			fmt.Sprint(res.Crossings),
			cacheStatus(res.CacheHit),
		}
	}
	prog.done("batch layout", "graphs", len(results), "cached", hits)

	p.success("Layouts complete")
	p.table([]string{"Output", "Nodes", "Ranks", "Crossings", "Status"}, rows)
	return nil
}

// =============================================================================
// Output Helpers
// =============================================================================

func validateFormat(format string) error {
	return errors.ValidateOneOf(errors.ErrCodeInvalidInput, "format", format, formatGraph, formatResult)
}

// outputFor returns output, or input with its extension replaced by suffix.
func outputFor(input, output, suffix string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// writeJSON writes v as indented JSON to path, or to stdout for "-".
func writeJSON(stdout io.Writer, path string, v any) error {
	if path == "-" {
		return encodeJSON(stdout, v)
	}
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	if err := encodeJSON(f, v); err != nil {
		f.Close()
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return f.Close()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
