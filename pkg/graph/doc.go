// Package graph defines the data contract shared by the positioning engines
// and the hosts that drive them.
//
// # Core Types
//
//   - [Node]: identified vertex with a [Position] and optional sizes
//   - [Edge]: directed source → target pair; only topology matters
//   - [Position]: tagged variant, either Fixed at a point or Auto
//   - [Graph]: node-link exchange format for files and HTTP bodies
//
// # Positions
//
// A node whose position is Auto needs layout. The zero value of [Position]
// is Auto, so a node decoded without a "position" key is unplaced:
//
//	{
//	  "nodes": [{"id": "app", "position": {"x": 0, "y": 0}}, {"id": "lib"}],
//	  "edges": [{"source": "app", "target": "lib"}]
//	}
//
// Here "app" is placed at the origin and kept there; "lib" is laid out.
//
// # Reading Graphs
//
//	g, _ := graph.ReadGraphFile("deps.json")  // JSON
//	g, _ := graph.ReadGraphFile("deps.dot")   // Graphviz DOT, "pos" attributes become Fixed
//
// Reading validates node IDs (non-empty, unique). Edges naming unknown nodes
// are kept; the engines drop them silently.
//
// # Concurrency
//
// All functions are safe for concurrent use; values are plain data.
package graph
