package force

import "math"

// applyCenter pulls every unpinned node toward the configured center.
func (s *Simulation) applyCenter(dt float64) {
	k := s.opts.CenterStrength * s.alpha * dt
	if k == 0 {
		return
	}
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.pinned {
			continue
		}
		n.vx += (s.opts.CenterX - n.x) * k
		n.vy += (s.opts.CenterY - n.y) * k
	}
}

// applyLinks moves linked nodes toward LinkDistance from each other. The
// force is split equally between unpinned endpoints; a link with one pinned
// endpoint moves the other by the full amount.
func (s *Simulation) applyLinks(dt float64) {
	k := s.opts.LinkStrength * s.alpha * dt
	if k == 0 {
		return
	}
	for _, l := range s.links {
		if l.source == l.target {
			continue
		}
		src, dst := &s.nodes[l.source], &s.nodes[l.target]
		if src.pinned && dst.pinned {
			continue
		}
		dx, dy := dst.x-src.x, dst.y-src.y
		d := math.Hypot(dx, dy)
		if d == 0 {
			dx, dy = s.jitter.offset(l.source, l.target, s.ticks)
			d = math.Hypot(dx, dy)
		}
		f := (d - s.opts.LinkDistance) * k
		fx, fy := dx/d*f, dy/d*f

		share := 0.5
		if src.pinned || dst.pinned {
			share = 1
		}
		if !src.pinned {
			src.vx += fx * share
			src.vy += fy * share
		}
		if !dst.pinned {
			dst.vx -= fx * share
			dst.vy -= fy * share
		}
	}
}

// applyCharge applies the inverse-square interaction between every pair
// closer than MaxChargeDistance, or every pair when that is not positive.
// Negative strength repels.
func (s *Simulation) applyCharge(dt float64) {
	k := s.opts.ChargeStrength * s.alpha * dt
	if k == 0 {
		return
	}
	floor := s.opts.MinDistance
	if floor <= 0 {
		floor = DefaultOptions().MinDistance
	}
	limit := s.opts.MaxChargeDistance
	for i := range s.nodes {
		a := &s.nodes[i]
		for j := i + 1; j < len(s.nodes); j++ {
			b := &s.nodes[j]
			if a.pinned && b.pinned {
				continue
			}
			dx, dy := b.x-a.x, b.y-a.y
			d := math.Hypot(dx, dy)
			if limit > 0 && d > limit {
				continue
			}
			var ux, uy float64
			if d == 0 {
				ux, uy = s.jitter.direction(i, j, s.ticks)
			} else {
				ux, uy = dx/d, dy/d
			}
			dc := max(d, floor)
			mag := k / (dc * dc)
			if !a.pinned {
				a.vx += ux * mag
				a.vy += uy * mag
			}
			if !b.pinned {
				b.vx -= ux * mag
				b.vy -= uy * mag
			}
		}
	}
}

// applyCollision separates overlapping pairs by moving each unpinned member
// half the overlap. It corrects positions directly and leaves velocities
// alone.
func (s *Simulation) applyCollision(dt float64) {
	r := s.opts.CollisionRadius
	if r <= 0 {
		return
	}
	minDist := 2 * r
	for i := range s.nodes {
		a := &s.nodes[i]
		for j := i + 1; j < len(s.nodes); j++ {
			b := &s.nodes[j]
			if a.pinned && b.pinned {
				continue
			}
			dx, dy := b.x-a.x, b.y-a.y
			d := math.Hypot(dx, dy)
			if d >= minDist {
				continue
			}
			var ux, uy float64
			if d == 0 {
				ux, uy = s.jitter.direction(i, j, s.ticks)
			} else {
				ux, uy = dx/d, dy/d
			}
			push := (minDist - d) / 2 * dt
			if !a.pinned {
				a.x -= ux * push
				a.y -= uy * push
			}
			if !b.pinned {
				b.x += ux * push
				b.y += uy * push
			}
		}
	}
}

// integrate decays velocities and advances unpinned nodes. Pinned nodes
// snap to their pin with zero velocity.
func (s *Simulation) integrate(dt float64) {
	keep := 1 - s.opts.VelocityDecay
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.pinned {
			n.x, n.y = n.fx, n.fy
			n.vx, n.vy = 0, 0
			continue
		}
		n.vx *= keep
		n.vy *= keep
		n.x += n.vx * dt
		n.y += n.vy * dt
	}
}

// snapPins enforces the pin invariant without moving anything else.
func (s *Simulation) snapPins() {
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.pinned {
			n.x, n.y = n.fx, n.fy
			n.vx, n.vy = 0, 0
		}
	}
}
