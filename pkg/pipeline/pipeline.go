// Package pipeline runs the positioning engines behind a validating,
// caching, observable boundary.
//
// The engines in pkg/layered and pkg/force never fail and never block. The
// CLI and the HTTP service need more than that: input validation with coded
// errors, result caching, cancellation, logging and hooks. This package
// centralizes that logic so every entry point behaves the same.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Layout(ctx, g, pipeline.LayoutOptions{Direction: "LR"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, n := range res.Nodes {
//	    p, _ := n.Position.Point()
//	    fmt.Println(n.ID, p.X, p.Y)
//	}
//
// Headless force relaxation:
//
//	res, err := runner.Simulate(ctx, g, pipeline.SimulateOptions{MaxTicks: 500})
//
// Streaming frames at a fixed rate:
//
//	_, err := runner.Stream(ctx, g, pipeline.StreamOptions{FPS: 30}, func(f pipeline.Frame) error {
//	    return enc.Encode(f)
//	})
package pipeline

import (
	"time"

	"github.com/matzehuels/graphpos/pkg/errors"
	"github.com/matzehuels/graphpos/pkg/force"
	"github.com/matzehuels/graphpos/pkg/graph"
	"github.com/matzehuels/graphpos/pkg/layered"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxTicks bounds a headless simulation. With the default decay
	// the simulation settles after roughly 300 ticks.
	DefaultMaxTicks = 3000

	// DefaultStreamFPS is the frame rate of Stream.
	DefaultStreamFPS = force.DefaultFPS

	// MaxStreamFPS bounds the frame rate of Stream and the watch view.
	MaxStreamFPS = 1000

	// DefaultStreamEvery emits every frame.
	DefaultStreamEvery = 1
)

// =============================================================================
// Layout Options
// =============================================================================

// LayoutOptions configures a layered layout run. Zero values select the
// engine defaults; unlike the engine, invalid values are rejected.
type LayoutOptions struct {
	Direction   string  `json:"direction,omitempty" toml:"direction"`
	Alignment   string  `json:"alignment,omitempty" toml:"alignment"`
	NodeSpacing float64 `json:"node_spacing,omitempty" toml:"node_spacing"`
	RankSpacing float64 `json:"rank_spacing,omitempty" toml:"rank_spacing"`
	NodeWidth   float64 `json:"node_width,omitempty" toml:"node_width"`
	NodeHeight  float64 `json:"node_height,omitempty" toml:"node_height"`

	// Refresh bypasses cache reads; the fresh result is still stored.
	Refresh bool `json:"refresh,omitempty" toml:"-"`
}

// Validate checks every field and reports the first problem as a coded
// error. Empty strings and zero numbers are valid and mean "default".
func (o LayoutOptions) Validate() error {
	if o.Direction != "" {
		if err := errors.ValidateOneOf(errors.ErrCodeInvalidDirection, "direction", o.Direction, directionNames()...); err != nil {
			return err
		}
	}
	if o.Alignment != "" {
		if err := errors.ValidateOneOf(errors.ErrCodeInvalidAlignment, "alignment", o.Alignment, alignmentNames()...); err != nil {
			return err
		}
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"node_spacing", o.NodeSpacing},
		{"rank_spacing", o.RankSpacing},
		{"node_width", o.NodeWidth},
		{"node_height", o.NodeHeight},
	}
	for _, c := range checks {
		if err := errors.ValidateNonNegative(c.name, c.v); err != nil {
			return err
		}
	}
	return nil
}

// Engine returns the resolved engine options.
func (o LayoutOptions) Engine() layered.Options {
	return layered.Options{
		Direction:   layered.Direction(o.Direction),
		Alignment:   layered.Alignment(o.Alignment),
		NodeSpacing: o.NodeSpacing,
		RankSpacing: o.RankSpacing,
		NodeWidth:   o.NodeWidth,
		NodeHeight:  o.NodeHeight,
	}.WithDefaults()
}

func directionNames() []string {
	out := make([]string, len(layered.Directions))
	for i, d := range layered.Directions {
		out[i] = string(d)
	}
	return out
}

func alignmentNames() []string {
	out := make([]string, len(layered.Alignments))
	for i, a := range layered.Alignments {
		out[i] = string(a)
	}
	return out
}

// =============================================================================
// Simulation Options
// =============================================================================

// SimulateOptions configures a headless force simulation.
type SimulateOptions struct {
	// Force overrides the default force parameters.
	Force force.Patch `json:"force,omitzero" toml:"force"`

	// MaxTicks bounds the run; zero selects DefaultMaxTicks.
	MaxTicks int `json:"max_ticks,omitempty" toml:"max_ticks"`

	// InitialLayout seeds Auto nodes with a layered layout before the
	// simulation starts, instead of starting them at the origin.
	InitialLayout bool `json:"initial_layout,omitempty" toml:"initial_layout"`

	// Refresh bypasses cache reads.
	Refresh bool `json:"refresh,omitempty" toml:"-"`
}

// Validate rejects non-finite force parameters, negative energies, a
// non-positive min_distance, decay rates outside [0, 1] and a negative
// tick budget.
func (o SimulateOptions) Validate() error {
	if o.MaxTicks < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "max_ticks must not be negative (got %d)", o.MaxTicks)
	}
	p := o.Force
	finite := []struct {
		name string
		v    *float64
	}{
		{"link_distance", p.LinkDistance},
		{"link_strength", p.LinkStrength},
		{"charge_strength", p.ChargeStrength},
		{"collision_radius", p.CollisionRadius},
		{"center_strength", p.CenterStrength},
		{"center_x", p.CenterX},
		{"center_y", p.CenterY},
		{"max_charge_distance", p.MaxChargeDistance},
	}
	for _, f := range finite {
		if f.v == nil {
			continue
		}
		if err := errors.ValidateFinite(f.name, *f.v); err != nil {
			return err
		}
	}
	nonNeg := []struct {
		name string
		v    *float64
	}{
		{"alpha", p.Alpha},
		{"alpha_min", p.AlphaMin},
		{"alpha_target", p.AlphaTarget},
		{"collision_radius", p.CollisionRadius},
	}
	for _, f := range nonNeg {
		if f.v == nil {
			continue
		}
		if err := errors.ValidateNonNegative(f.name, *f.v); err != nil {
			return err
		}
	}
	if p.MinDistance != nil {
		if err := errors.ValidatePositive("min_distance", *p.MinDistance); err != nil {
			return err
		}
	}
	unit := []struct {
		name string
		v    *float64
	}{
		{"alpha_decay", p.AlphaDecay},
		{"velocity_decay", p.VelocityDecay},
	}
	for _, f := range unit {
		if f.v == nil {
			continue
		}
		if err := errors.ValidateUnit(f.name, *f.v); err != nil {
			return err
		}
	}
	return nil
}

func (o SimulateOptions) maxTicks() int {
	if o.MaxTicks == 0 {
		return DefaultMaxTicks
	}
	return o.MaxTicks
}

// StreamOptions configures Stream.
type StreamOptions struct {
	SimulateOptions

	// FPS is the frame rate; zero selects DefaultStreamFPS.
	FPS int `json:"fps,omitempty"`

	// Every emits one frame per Every ticks; the final frame is always
	// emitted. Zero selects DefaultStreamEvery.
	Every int `json:"every,omitempty"`
}

// Validate checks the embedded simulation options and the frame settings.
func (o StreamOptions) Validate() error {
	if err := o.SimulateOptions.Validate(); err != nil {
		return err
	}
	if o.FPS < 0 || o.FPS > MaxStreamFPS {
		return errors.New(errors.ErrCodeInvalidOptions, "fps must be between 0 and %d (got %d)", MaxStreamFPS, o.FPS)
	}
	if o.Every < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "every must not be negative (got %d)", o.Every)
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// LayoutResult is the outcome of Runner.Layout.
type LayoutResult struct {
	RunID     string         `json:"run_id"`
	GraphHash string         `json:"graph_hash"`
	Nodes     []graph.Node   `json:"nodes"`
	Ranks     map[string]int `json:"ranks"`
	Layers    [][]string     `json:"layers"`
	BackEdges []graph.Edge   `json:"back_edges,omitempty"`
	Crossings int            `json:"crossings"`
	CacheHit  bool           `json:"cache_hit"`
	Duration  time.Duration  `json:"duration_ns"`
}

// SimulateResult is the outcome of Runner.Simulate and Runner.Stream.
type SimulateResult struct {
	RunID     string        `json:"run_id"`
	GraphHash string        `json:"graph_hash"`
	Nodes     []graph.Node  `json:"nodes"`
	Ticks     int           `json:"ticks"`
	Alpha     float64       `json:"alpha"`
	Settled   bool          `json:"settled"`
	CacheHit  bool          `json:"cache_hit"`
	Duration  time.Duration `json:"duration_ns"`
}

// Frame is one streamed simulation snapshot.
type Frame struct {
	Tick      int                    `json:"tick"`
	Alpha     float64                `json:"alpha"`
	Settled   bool                   `json:"settled"`
	Positions map[string]graph.Point `json:"positions"`
}
