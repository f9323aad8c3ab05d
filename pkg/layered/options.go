package layered

import "github.com/matzehuels/graphpos/pkg/graph"

// Direction selects the rank axis and its orientation.
type Direction string

const (
	TopBottom Direction = "TB" // ranks grow downward (default)
	BottomTop Direction = "BT" // ranks grow upward
	LeftRight Direction = "LR" // ranks grow rightward
	RightLeft Direction = "RL" // ranks grow leftward
)

// Directions lists every supported direction.
var Directions = []Direction{TopBottom, BottomTop, LeftRight, RightLeft}

// Valid reports whether d is a supported direction.
func (d Direction) Valid() bool {
	switch d {
	case TopBottom, BottomTop, LeftRight, RightLeft:
		return true
	}
	return false
}

// horizontal reports whether ranks advance along the x axis.
func (d Direction) horizontal() bool { return d == LeftRight || d == RightLeft }

// reversed reports whether the rank axis is negated.
func (d Direction) reversed() bool { return d == BottomTop || d == RightLeft }

// Alignment positions each layer relative to the widest layer.
type Alignment string

const (
	AlignStart  Alignment = "start"
	AlignCenter Alignment = "center" // default
	AlignEnd    Alignment = "end"
)

// Alignments lists every supported alignment.
var Alignments = []Alignment{AlignStart, AlignCenter, AlignEnd}

// Valid reports whether a is a supported alignment.
func (a Alignment) Valid() bool {
	switch a {
	case AlignStart, AlignCenter, AlignEnd:
		return true
	}
	return false
}

// Default option values.
const (
	DefaultNodeSpacing = 50.0
	DefaultRankSpacing = 100.0
	DefaultNodeWidth   = 150.0
	DefaultNodeHeight  = 50.0
)

// Options configures the layered layout. Zero values select defaults.
//
// NodeWidth and NodeHeight are fallbacks for nodes that carry neither an
// explicit nor a measured size.
type Options struct {
	Direction   Direction `json:"direction,omitempty" toml:"direction"`
	NodeSpacing float64   `json:"node_spacing,omitempty" toml:"node_spacing"`
	RankSpacing float64   `json:"rank_spacing,omitempty" toml:"rank_spacing"`
	NodeWidth   float64   `json:"node_width,omitempty" toml:"node_width"`
	NodeHeight  float64   `json:"node_height,omitempty" toml:"node_height"`
	Alignment   Alignment `json:"alignment,omitempty" toml:"alignment"`
}

// DefaultOptions returns the options used for zero or invalid fields.
func DefaultOptions() Options {
	return Options{
		Direction:   TopBottom,
		NodeSpacing: DefaultNodeSpacing,
		RankSpacing: DefaultRankSpacing,
		NodeWidth:   DefaultNodeWidth,
		NodeHeight:  DefaultNodeHeight,
		Alignment:   AlignCenter,
	}
}

// WithDefaults returns a copy of o with every zero, negative, non-finite or
// unknown field replaced by its default.
func (o Options) WithDefaults() Options {
	def := DefaultOptions()
	if !o.Direction.Valid() {
		o.Direction = def.Direction
	}
	if !o.Alignment.Valid() {
		o.Alignment = def.Alignment
	}
	o.NodeSpacing = positiveOr(o.NodeSpacing, def.NodeSpacing)
	o.RankSpacing = positiveOr(o.RankSpacing, def.RankSpacing)
	o.NodeWidth = positiveOr(o.NodeWidth, def.NodeWidth)
	o.NodeHeight = positiveOr(o.NodeHeight, def.NodeHeight)
	return o
}

func positiveOr(v, fallback float64) float64 {
	if v > 0 && graph.Finite(v) {
		return v
	}
	return fallback
}
