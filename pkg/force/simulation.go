package force

import (
	"math"

	"github.com/matzehuels/graphpos/pkg/graph"
)

// DefaultReheatTarget is the energy used by ReheatDefault.
const DefaultReheatTarget = 0.2

// Ambient motion parameters for PulseAmbient.
const (
	ambientAmplitude   = 0.08
	ambientPhaseOffset = 0.7
)

// TickFunc receives a snapshot after every scheduled tick.
type TickFunc func(State)

// Simulation is a force-directed relaxation of node positions.
//
// A Simulation owns its node and link state exclusively. Callers feed it
// nodes and edges, control it through the methods below, and read results
// from State snapshots or the TickFunc passed to Start.
//
// A Simulation is not safe for concurrent use. All methods, and the frame
// callbacks it schedules, must run on one goroutine. It never returns
// errors: unknown IDs and non-finite numbers are ignored.
type Simulation struct {
	opts  Options
	alpha float64
	ticks int

	nodes []simNode
	index map[string]int
	edges []graph.Edge
	links []link

	jitter jitter

	sched   Scheduler
	running bool
	gen     uint64
	pending Handle
	onTick  TickFunc
}

// New creates an idle simulation with DefaultOptions merged with p. Frames
// are requested from sched; a nil sched selects a new ManualScheduler.
func New(p Patch, sched Scheduler) *Simulation {
	if sched == nil {
		sched = NewManualScheduler()
	}
	opts := DefaultOptions().Apply(p)
	return &Simulation{
		opts:   opts,
		alpha:  opts.Alpha,
		index:  make(map[string]int),
		jitter: newJitter(opts.Seed),
		sched:  sched,
	}
}

// Scheduler returns the scheduler frames are requested from.
func (s *Simulation) Scheduler() Scheduler { return s.sched }

// =============================================================================
// Nodes and links
// =============================================================================

// SetNodes replaces the node set, merging by ID.
//
// Nodes whose ID is already known keep their simulated position, velocity
// and pin. New nodes start at their Fixed position, or at (0,0) when Auto,
// with zero velocity. Known nodes missing from the list are dropped. Empty
// and repeated IDs are skipped. Links are re-resolved against the new set.
func (s *Simulation) SetNodes(nodes []graph.Node) {
	next := make([]simNode, 0, len(nodes))
	index := make(map[string]int, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		if _, dup := index[n.ID]; dup {
			continue
		}
		if i, ok := s.index[n.ID]; ok {
			next = append(next, s.nodes[i])
		} else {
			p := n.Position.OrOrigin()
			next = append(next, simNode{id: n.ID, x: p.X, y: p.Y})
		}
		index[n.ID] = len(next) - 1
	}
	s.nodes, s.index = next, index
	s.resolveLinks()
}

// SetEdges replaces the link set. Edges naming unknown nodes are dropped.
func (s *Simulation) SetEdges(edges []graph.Edge) {
	s.edges = append([]graph.Edge(nil), edges...)
	s.resolveLinks()
}

func (s *Simulation) resolveLinks() {
	s.links = s.links[:0]
	for _, e := range s.edges {
		src, ok1 := s.index[e.Source]
		dst, ok2 := s.index[e.Target]
		if ok1 && ok2 {
			s.links = append(s.links, link{source: src, target: dst})
		}
	}
}

// =============================================================================
// Options and energy
// =============================================================================

// SetOptions merges p into the current options. When p includes Alpha, the
// current energy is overwritten as well. Changing AnchorNodeID unpins the
// previous anchor; the new one is pinned by the next SyncAnchor.
func (s *Simulation) SetOptions(p Patch) {
	seed, anchor := s.opts.Seed, s.opts.AnchorNodeID
	s.opts = s.opts.Apply(p)
	if anchor != "" && anchor != s.opts.AnchorNodeID {
		s.UnpinNode(anchor)
	}
	if p.Alpha != nil && graph.Finite(*p.Alpha) {
		s.alpha = max(*p.Alpha, 0)
	}
	if s.opts.Seed != seed {
		s.jitter = newJitter(s.opts.Seed)
	}
}

// Options returns a copy of the current options.
func (s *Simulation) Options() Options { return s.opts }

// Alpha returns the current energy.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha overwrites the current energy, clamped to >= 0. It neither
// changes AlphaTarget nor resumes the simulation.
func (s *Simulation) SetAlpha(v float64) {
	if !graph.Finite(v) {
		return
	}
	s.alpha = max(v, 0)
}

// SetAlphaTarget sets the energy floor the simulation cools toward, and
// resumes it while there is energy above AlphaMin.
func (s *Simulation) SetAlphaTarget(t float64) {
	if !graph.Finite(t) {
		return
	}
	s.opts.AlphaTarget = max(t, 0)
	if s.alpha > s.opts.AlphaMin || s.opts.AlphaTarget > s.opts.AlphaMin {
		s.resume()
	}
}

// Reheat raises both the energy and its floor to at least target and
// resumes the simulation. The floor stays raised until lowered with
// SetAlphaTarget.
func (s *Simulation) Reheat(target float64) {
	if !graph.Finite(target) {
		return
	}
	target = max(target, 0)
	s.alpha = max(s.alpha, target)
	s.opts.AlphaTarget = max(s.opts.AlphaTarget, target)
	s.resume()
}

// ReheatDefault is Reheat(DefaultReheatTarget).
func (s *Simulation) ReheatDefault() { s.Reheat(DefaultReheatTarget) }

// =============================================================================
// Pins
// =============================================================================

// PinNode fixes a node at (x, y): its position snaps there and its
// velocity is zeroed. Unknown IDs and non-finite coordinates are ignored.
func (s *Simulation) PinNode(id string, x, y float64) {
	if !graph.Finite(x) || !graph.Finite(y) {
		return
	}
	if i, ok := s.index[id]; ok {
		s.nodes[i].pin(x, y)
	}
}

// MovePinnedNode moves a node's pin, pinning it if it was free.
func (s *Simulation) MovePinnedNode(id string, x, y float64) { s.PinNode(id, x, y) }

// UnpinNode releases a node's pin. Its velocity stays zero until forces
// act on it.
func (s *Simulation) UnpinNode(id string) {
	if i, ok := s.index[id]; ok {
		s.nodes[i].pinned = false
	}
}

// SyncAnchor pins the anchor node (Options.AnchorNodeID) at (x, y). Hosts
// call it with the current viewport center; without an anchor, or when
// the anchor is not a known node, it does nothing.
func (s *Simulation) SyncAnchor(x, y float64) {
	if s.opts.AnchorNodeID == "" {
		return
	}
	s.PinNode(s.opts.AnchorNodeID, x, y)
}

// PulseAmbient adds a small sinusoidal velocity to every unpinned node
// except the anchor. Each node's phase is offset by its index so the graph
// appears to breathe rather than drift.
func (s *Simulation) PulseAmbient(phase float64) {
	if !graph.Finite(phase) {
		return
	}
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.pinned || n.id == s.opts.AnchorNodeID {
			continue
		}
		p := phase + float64(i)*ambientPhaseOffset
		n.vx += ambientAmplitude * math.Cos(p)
		n.vy += ambientAmplitude * math.Sin(p)
	}
}

// =============================================================================
// Stepping
// =============================================================================

// Tick advances the simulation by one step of length dt. A non-finite or
// non-positive dt is treated as 1.
//
// The step cools alpha toward AlphaTarget, then applies the center, link,
// charge and collision forces in that order, and finally integrates. A
// settled simulation only enforces pins. A node whose state becomes
// non-finite is restored to its previous position with zero velocity.
func (s *Simulation) Tick(dt float64) {
	if !graph.Finite(dt) || dt <= 0 {
		dt = 1
	}
	s.alpha += (s.opts.AlphaTarget - s.alpha) * s.opts.AlphaDecay
	if !graph.Finite(s.alpha) || s.alpha < 0 {
		s.alpha = s.opts.AlphaTarget
	}
	s.ticks++

	if s.settled() {
		s.snapPins()
		return
	}

	prev := make([]graph.Point, len(s.nodes))
	for i, n := range s.nodes {
		prev[i] = graph.Point{X: n.x, Y: n.y}
	}

	s.applyCenter(dt)
	s.applyLinks(dt)
	s.applyCharge(dt)
	s.applyCollision(dt)
	s.integrate(dt)

	for i := range s.nodes {
		n := &s.nodes[i]
		if graph.Finite(n.x) && graph.Finite(n.y) && graph.Finite(n.vx) && graph.Finite(n.vy) {
			continue
		}
		n.x, n.y = prev[i].X, prev[i].Y
		n.vx, n.vy = 0, 0
	}
}

func (s *Simulation) settled() bool {
	return s.alpha <= s.opts.AlphaMin && s.opts.AlphaTarget <= s.opts.AlphaMin
}

// State returns a snapshot of the simulation.
func (s *Simulation) State() State {
	st := State{
		Alpha:   s.alpha,
		Running: s.running,
		Ticks:   s.ticks,
		Options: s.opts,
		Nodes:   make([]Node, len(s.nodes)),
		Links:   make([]Link, len(s.links)),
	}
	for i := range s.nodes {
		st.Nodes[i] = s.nodes[i].snapshot()
	}
	for i, l := range s.links {
		st.Links[i] = Link{Source: s.nodes[l.source].id, Target: s.nodes[l.target].id}
	}
	return st
}

// =============================================================================
// Lifecycle
// =============================================================================

// Running reports whether frames are being scheduled.
func (s *Simulation) Running() bool { return s.running }

// Start moves an idle simulation to running and schedules frames. Each
// frame ticks once with dt=1 and passes a snapshot to fn, which may be nil.
// The simulation returns to idle by itself once settled. Start on a
// running simulation does nothing.
func (s *Simulation) Start(fn TickFunc) {
	if s.running {
		return
	}
	s.onTick = fn
	s.running = true
	s.gen++
	s.scheduleFrame()
}

// Stop moves a running simulation to idle. No tick or callback runs after
// Stop returns, even for a frame that was already requested.
func (s *Simulation) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.gen++
	s.sched.Cancel(s.pending)
	s.pending = 0
}

// resume restarts an idle simulation with the last tick callback.
func (s *Simulation) resume() { s.Start(s.onTick) }

func (s *Simulation) scheduleFrame() {
	gen := s.gen
	s.pending = s.sched.Schedule(func() { s.frame(gen) })
}

func (s *Simulation) frame(gen uint64) {
	if !s.running || gen != s.gen {
		return
	}
	s.pending = 0
	s.Tick(1)
	if s.onTick != nil {
		s.onTick(s.State())
	}
	// The callback may have stopped or restarted the simulation.
	if !s.running || gen != s.gen {
		return
	}
	if s.settled() {
		s.running = false
		return
	}
	s.scheduleFrame()
}
