package layered

import (
	"slices"

	"github.com/matzehuels/graphpos/pkg/dag"
	"github.com/matzehuels/graphpos/pkg/graph"
)

// Result is the outcome of a layered layout together with diagnostics.
type Result struct {
	// Nodes has the same length and order as the input. Auto nodes carry
	// their computed Fixed position; Fixed nodes are returned untouched.
	Nodes []graph.Node

	// Ranks maps every node ID to its layer index.
	Ranks map[string]int

	// Layers holds the final left-to-right (or top-to-bottom) order of
	// each rank.
	Layers [][]string

	// BackEdges lists the edges skipped during ranking, in input order.
	BackEdges []graph.Edge

	// Crossings is the number of crossings between adjacent layers in the
	// final order.
	Crossings int
}

// Layout assigns coordinates to every node whose position is Auto and
// returns the updated nodes. Nodes with a Fixed position are never changed
// but still take part in ranking, ordering and spacing.
//
// Layout never fails: an empty input is returned unchanged, edges naming
// unknown nodes are ignored, and cycles are broken by skipping back edges.
// The input slice is not modified. Layout is safe for concurrent use.
func Layout(nodes []graph.Node, edges []graph.Edge, opts Options) []graph.Node {
	return Compute(nodes, edges, opts).Nodes
}

// Compute is Layout with diagnostics.
func Compute(nodes []graph.Node, edges []graph.Edge, opts Options) Result {
	if len(nodes) == 0 {
		return Result{Nodes: nodes, Ranks: map[string]int{}}
	}
	opts = opts.WithDefaults()

	g := dag.New()
	sizes := make(map[string]extent, len(nodes))
	for _, n := range nodes {
		if err := g.AddNode(n.ID); err != nil {
			continue // empty or duplicate id: first occurrence wins
		}
		w, h := n.Size(opts.NodeWidth, opts.NodeHeight)
		sizes[n.ID] = extent{w: w, h: h}
	}
	for _, e := range edges {
		_ = g.AddEdge(dag.Edge{From: e.Source, To: e.Target})
	}

	back := assignRanks(g)
	layers := orderLayers(g)
	points := assignCoordinates(layers, sizes, opts)

	out := slices.Clone(nodes)
	for i := range out {
		if !out[i].Position.IsAuto() {
			continue
		}
		if p, ok := points[out[i].ID]; ok {
			out[i].Position = graph.Fixed(p.X, p.Y)
		}
	}

	ranks := make(map[string]int, g.NodeCount())
	for _, n := range g.Nodes() {
		ranks[n.ID] = n.Rank
	}

	var backEdges []graph.Edge
	for _, e := range edges {
		if back[dag.Edge{From: e.Source, To: e.Target}] {
			backEdges = append(backEdges, e)
		}
	}

	return Result{
		Nodes:     out,
		Ranks:     ranks,
		Layers:    layers,
		BackEdges: backEdges,
		Crossings: dag.CountCrossings(g, layers),
	}
}
