package force

import (
	"slices"

	"github.com/matzehuels/graphpos/pkg/graph"
)

// Node is a snapshot of one simulated node. FX and FY are set while the
// node is pinned. Mass is always 1.
type Node struct {
	ID string   `json:"id"`
	X  float64  `json:"x"`
	Y  float64  `json:"y"`
	VX float64  `json:"vx"`
	VY float64  `json:"vy"`
	FX *float64 `json:"fx,omitempty"`
	FY *float64 `json:"fy,omitempty"`
}

// Pinned reports whether the node has a fixed override.
func (n Node) Pinned() bool { return n.FX != nil && n.FY != nil }

// Point returns the node's position.
func (n Node) Point() graph.Point { return graph.Point{X: n.X, Y: n.Y} }

// Link is a resolved edge between two known nodes.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// State is an immutable snapshot of a Simulation. It shares no memory with
// the simulation that produced it.
type State struct {
	Alpha   float64 `json:"alpha"`
	Running bool    `json:"running"`
	Ticks   int     `json:"ticks"`
	Options Options `json:"options"`
	Nodes   []Node  `json:"nodes"`
	Links   []Link  `json:"links"`
}

// Settled reports whether the snapshot's energy is at or below AlphaMin
// with no cooling target keeping it alive.
func (s State) Settled() bool {
	return s.Alpha <= s.Options.AlphaMin && s.Options.AlphaTarget <= s.Options.AlphaMin
}

// Positions returns the node positions keyed by ID.
func (s State) Positions() map[string]graph.Point {
	m := make(map[string]graph.Point, len(s.Nodes))
	for _, n := range s.Nodes {
		m[n.ID] = n.Point()
	}
	return m
}

// Apply writes the snapshot's positions onto nodes as Fixed positions and
// returns the result. Nodes unknown to the snapshot are left unchanged; the
// input slice is not modified.
func (s State) Apply(nodes []graph.Node) []graph.Node {
	pos := s.Positions()
	out := slices.Clone(nodes)
	for i := range out {
		if p, ok := pos[out[i].ID]; ok {
			out[i].Position = graph.Fixed(p.X, p.Y)
		}
	}
	return out
}

// simNode is the live per-node record owned by a Simulation.
type simNode struct {
	id     string
	x, y   float64
	vx, vy float64
	fx, fy float64
	pinned bool
}

func (n *simNode) pin(x, y float64) {
	n.fx, n.fy = x, y
	n.x, n.y = x, y
	n.vx, n.vy = 0, 0
	n.pinned = true
}

func (n *simNode) snapshot() Node {
	out := Node{ID: n.id, X: n.x, Y: n.y, VX: n.vx, VY: n.vy}
	if n.pinned {
		fx, fy := n.fx, n.fy
		out.FX, out.FY = &fx, &fy
	}
	return out
}

// link is a Link resolved to node indexes.
type link struct{ source, target int }
