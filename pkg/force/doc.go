// Package force implements a stateful force-directed simulation of node
// positions with a cooling schedule.
//
// # Overview
//
// A [Simulation] holds a position, a velocity and an optional pin for every
// node. Each [Simulation.Tick] cools the energy (alpha) toward its target
// and applies, in this order:
//
//  1. Center: unpinned nodes are pulled toward (CenterX, CenterY).
//  2. Link: linked nodes are pulled or pushed toward LinkDistance.
//  3. Charge: pairs within MaxChargeDistance attract or repel with an
//     inverse-square law; negative ChargeStrength repels.
//  4. Collision: pairs closer than 2×CollisionRadius are pushed apart by
//     moving their positions directly.
//  5. Integration: velocities decay by VelocityDecay and move unpinned
//     nodes; pinned nodes snap to their pin with zero velocity.
//
// All forces scale with alpha and dt. The order matters: the forces compose
// non-commutatively within a step.
//
// # Lifecycle
//
// A simulation is Idle or Running. [Simulation.Start] schedules frames on a
// [Scheduler]; each frame ticks once and reports a [State] snapshot to the
// tick callback. Once alpha and AlphaTarget are both at or below AlphaMin
// the simulation is settled and returns to Idle by itself.
// [Simulation.Stop] cancels the pending frame, and a generation counter
// guarantees that a frame already handed to the host never ticks.
//
// # Scheduling
//
// Frame timing belongs to the host. [ManualScheduler] runs frames only when
// stepped, which suits tests, headless runs and hosts with their own event
// loop. [FrameScheduler] runs frames from a ticker on the goroutine calling
// [FrameScheduler.Run].
//
//	sched := force.NewManualScheduler()
//	sim := force.New(force.Patch{}, sched)
//	sim.SetNodes(nodes)
//	sim.SetEdges(edges)
//	sim.Start(func(st force.State) { render(st.Positions()) })
//	sched.Drain(0) // until settled
//
// # Interaction
//
// Drag gestures map to [Simulation.PinNode], [Simulation.MovePinnedNode] and
// [Simulation.UnpinNode], usually together with [Simulation.SetAlphaTarget]
// to keep the graph warm while dragging. [Simulation.Reheat] wakes the
// simulation after viewport changes. [Simulation.SyncAnchor] keeps the
// anchor node at a host-supplied point, typically the viewport center, and
// [Simulation.PulseAmbient] adds idle motion.
//
// # Failure Semantics
//
// Nothing in this package returns an error. Unknown IDs, dangling edges and
// non-finite inputs are ignored. Coincident nodes are separated along a
// direction taken from a seeded simplex noise field, so runs are
// reproducible. A node whose state becomes non-finite during a step keeps
// its last good position.
//
// # Concurrency
//
// A Simulation is not safe for concurrent use; drive it from one goroutine.
// Snapshots returned by [Simulation.State] share no memory with it.
package force
