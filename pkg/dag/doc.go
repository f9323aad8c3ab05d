// Package dag provides the topology index used by the layered layout engine.
//
// # Overview
//
// A [DAG] stores node identities in insertion order together with forward
// and backward adjacency and a rank (layer) per node. It is built fresh for
// every layout call and thrown away afterwards; the caller's node and edge
// records are never referenced.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [DAG.AddNode] and edges with
// [DAG.AddEdge]. Edges whose endpoints are unknown are rejected with an
// error, which the layout engine ignores to drop dangling edges:
//
//	g := dag.New()
//	_ = g.AddNode("app")
//	_ = g.AddNode("lib")
//	_ = g.AddEdge(dag.Edge{From: "app", To: "lib"})
//
// # Cycles
//
// Cycles are allowed. [DAG.BackEdges] runs an iterative depth-first search
// and reports every edge whose target is on the active search path. Rank
// assignment skips those edges, which breaks cycles without removing edges
// from the graph.
//
// # Ranks
//
// [DAG.SetRanks] stores rank assignments and [DAG.NodesInRank] groups nodes
// by rank, in insertion order. Ranks are expected to be contiguous from 0.
//
// # Edge Crossings
//
// The [CountCrossings] and [CountLayerCrossings] functions use a Fenwick tree
// (binary indexed tree) to count inversions in O(E log V) time. The layout
// engine reports the crossing count of its final ordering as a diagnostic.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Each layout call builds its
// own instance, so concurrent layouts never share one.
package dag
