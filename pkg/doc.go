// Package pkg provides the core libraries for graphpos node positioning.
//
// # Overview
//
// graphpos assigns 2D coordinates to the nodes of a directed graph. It has
// two engines that share the same node and edge records:
//
//  1. [layered] - A one-shot Sugiyama-style layout: break cycles, assign
//     ranks, order nodes within ranks to reduce crossings, then place them.
//  2. [force] - An iterative force-directed simulation that cools over time
//     and is driven frame by frame by a scheduler.
//
// Both engines are pure: they never fail, never block and never modify
// their input. Validation, caching, cancellation and logging live in
// [pipeline], which backs the CLI and the HTTP service alike.
//
// # Architecture
//
// The typical data flow:
//
//	JSON or DOT file / HTTP request
//	         ↓
//	    [graph] package (decode + validate)
//	         ↓
//	    [pipeline] package (options, cache lookup, hooks)
//	         ↓
//	    [layered] or [force] package (positions)
//	         ↓
//	    positioned graph as JSON
//
// # Quick Start
//
// Compute a layered layout:
//
//	import (
//	    "github.com/matzehuels/graphpos/pkg/graph"
//	    "github.com/matzehuels/graphpos/pkg/layered"
//	)
//
//	nodes := []graph.Node{{ID: "app"}, {ID: "lib"}}
//	edges := []graph.Edge{{Source: "app", Target: "lib"}}
//	placed := layered.Layout(nodes, edges, layered.DefaultOptions())
//
// Run a force simulation to rest:
//
//	sched := force.NewManualScheduler()
//	sim := force.New(force.Patch{LinkDistance: force.Float(80)}, sched)
//	sim.SetNodes(nodes)
//	sim.SetEdges(edges)
//	sim.Start(nil)
//	sched.Drain(1000)
//	placed = sim.State().Apply(nodes)
//
// # Main Packages
//
// ## Engines
//
// [layered] - Layered layout with four directions and three alignments.
// Nodes with a Fixed position keep it; everything else is placed.
//
// [dag] - Topology index used by [layered]: adjacency, cycle breaking,
// longest-path ranking and crossing counts.
//
// [force] - Force simulation with link, charge, collision and center
// forces, pinning, reheating and pluggable frame schedulers.
//
// ## Serialization
//
// [graph] - Node, edge and position types with JSON and Graphviz DOT input.
//
// ## Infrastructure
//
// [pipeline] - Validated, cached and observable engine runs used by the CLI
// and the API. Ensures consistent behavior across all entry points.
//
// [cache] - Result caches: FileCache (CLI), RedisCache (shared service
// deployments) and NullCache (testing, --no-cache). Keys can be namespaced
// by release with Versioned.
//
// [api] - HTTP service built on chi, including NDJSON frame streaming.
//
// [errors] - Coded errors, validation helpers and HTTP status mapping.
//
// [observability] - Hooks for layout, simulation, cache and HTTP events.
//
// [buildinfo] - Version information from ldflags or embedded module data.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/layered/...    # Specific package
//	go test -run Example         # Examples only
//
// Set GRAPHPOS_REDIS_ADDR to also run the redis cache tests.
//
// [layered]: https://pkg.go.dev/github.com/matzehuels/graphpos/pkg/layered
// [dag]: https://pkg.go.dev/github.com/matzehuels/graphpos/pkg/dag
// [force]: https://pkg.go.dev/github.com/matzehuels/graphpos/pkg/force
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphpos/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/graphpos/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphpos/pkg/cache
// [api]: https://pkg.go.dev/github.com/matzehuels/graphpos/pkg/api
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphpos/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphpos/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/graphpos/pkg/buildinfo
package pkg
