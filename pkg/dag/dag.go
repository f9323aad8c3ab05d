package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Node is a vertex in the topology index with its assigned rank.
type Node struct {
	ID   string // Unique identifier
	Rank int    // Layer assignment (0 = first layer)
}

// Edge is a directed connection between two node IDs.
type Edge struct {
	From string // Source node ID
	To   string // Target node ID
}

// DAG indexes the topology of a graph for layered layout.
//
// Despite the name, a DAG may hold cycles: the layout engine tolerates them
// by classifying back edges with [DAG.BackEdges] instead of removing them.
// Nodes are kept in insertion order, and every query that returns several
// nodes returns them in that order so results are deterministic.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization.
type DAG struct {
	nodes    map[string]*Node
	order    []*Node
	edges    []Edge
	outgoing map[string][]string // nodeID -> children IDs
	incoming map[string][]string // nodeID -> parent IDs
	ranks    [][]*Node           // rank -> nodes in that rank
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node with rank 0.
// Returns ErrInvalidNodeID if the ID is empty, or ErrDuplicateNodeID if a
// node with the same ID already exists.
func (d *DAG) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[id]; exists {
		return ErrDuplicateNodeID
	}
	n := &Node{ID: id}
	d.nodes[id] = n
	d.order = append(d.order, n)
	d.ranks = nil
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode when an endpoint is
// missing; the edge is not added in that case. Self loops and parallel
// edges are accepted.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// Nodes returns all nodes in insertion order. The returned slice is a copy
// but the node pointers refer to the graph's nodes.
func (d *DAG) Nodes() []*Node { return slices.Clone(d.order) }

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.order) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the IDs of nodes this node has edges to, in edge order.
// The returned slice should not be modified.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the IDs of nodes that have edges to this node, in edge order.
// The returned slice should not be modified.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// Sources returns nodes with no incoming edges, in insertion order.
// A graph where every node sits on a cycle has no sources.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, n := range d.order {
		if len(d.incoming[n.ID]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// SetRanks updates rank assignments and rebuilds the rank index.
// Nodes not present in the map keep their current rank; negative ranks
// are clamped to 0.
func (d *DAG) SetRanks(ranks map[string]int) {
	for _, n := range d.order {
		if r, ok := ranks[n.ID]; ok {
			n.Rank = max(r, 0)
		}
	}
	d.ranks = nil
}

func (d *DAG) rankIndex() [][]*Node {
	if d.ranks != nil || len(d.order) == 0 {
		return d.ranks
	}
	maxRank := 0
	for _, n := range d.order {
		maxRank = max(maxRank, n.Rank)
	}
	d.ranks = make([][]*Node, maxRank+1)
	for _, n := range d.order {
		d.ranks[n.Rank] = append(d.ranks[n.Rank], n)
	}
	return d.ranks
}

// NodesInRank returns the nodes assigned to the given rank in insertion
// order, or nil for an empty or out-of-range rank.
func (d *DAG) NodesInRank(rank int) []*Node {
	idx := d.rankIndex()
	if rank < 0 || rank >= len(idx) {
		return nil
	}
	return idx[rank]
}

// RankCount returns the number of ranks from 0 to the highest assigned
// rank inclusive, or 0 for an empty graph.
func (d *DAG) RankCount() int { return len(d.rankIndex()) }

// PosMap creates a position lookup map from a slice of node IDs.
// The returned map maps each ID to its index in the slice.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
