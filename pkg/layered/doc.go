// Package layered computes deterministic layered (Sugiyama-style) positions
// for directed graphs.
//
// # Overview
//
// [Layout] is a pure function from nodes, edges and [Options] to nodes. Only
// nodes whose position is [graph.Auto] receive coordinates; nodes with a
// [graph.Fixed] position are returned untouched. This lets callers mix
// manually placed and automatically placed nodes in one graph.
//
// Fixed nodes still contribute to the structure: adjacency is built over all
// nodes, so ranks and orderings reflect the whole graph.
//
// # Algorithm
//
// The layout runs in four phases:
//
//  1. Ranking: a depth-first search classifies back edges (edges whose
//     target is on the active search path). Skipping them, every node is
//     placed at the longest-path depth from the sources, so ranks are
//     contiguous from 0. Cycles and graphs without sources are handled
//     without removing edges.
//  2. Layering: nodes are grouped by rank in input order.
//  3. Ordering: four alternating barycenter sweeps (down, up, down, up)
//     stable-sort each layer by the mean index of its neighbors in the
//     adjacent layer. Nodes without such neighbors keep their relative
//     order at the end of the layer.
//  4. Coordinates: nodes are placed along the cross axis separated by
//     NodeSpacing, each layer aligned against the widest layer; layers are
//     separated by their tallest node plus RankSpacing.
//
// # Directions
//
// [TopBottom] places ranks downward along y. [LeftRight] swaps the axes.
// [BottomTop] and [RightLeft] mirror the rank axis and translate so the
// smallest coordinate is 0. Coordinates are top-left corners.
//
// # Node Sizes
//
// A node's size is its explicit Width/Height, else its measured size, else
// the NodeWidth/NodeHeight fallback from [Options].
//
// # Failure Semantics
//
// Layout never fails and never panics on malformed input: an empty node list
// is returned as is, edges naming unknown nodes are dropped, and duplicate
// IDs share the position computed for their first occurrence. Invalid
// options fall back to their defaults (see [Options.WithDefaults]); hosts
// that want to reject them do so before calling.
//
// # Diagnostics
//
// [Compute] returns a [Result] with the ranks, the final layer orders, the
// back edges and the resulting crossing count.
package layered
