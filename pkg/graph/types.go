package graph

import (
	"bytes"
	"encoding/json"
	"math"
)

// =============================================================================
// Position - Fixed or Auto
// =============================================================================

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Position is either Fixed at a coordinate or Auto (no position yet).
//
// The zero value is Auto. A node whose position is Auto needs layout; a
// Fixed node is never moved by the layered engine. Keeping the two states
// in one value removes the ambiguity between "not placed" and "placed at
// the origin".
type Position struct {
	pt    Point
	fixed bool
}

// Fixed returns a position pinned at (x, y). Non-finite coordinates yield Auto.
func Fixed(x, y float64) Position {
	if !Finite(x) || !Finite(y) {
		return Position{}
	}
	return Position{pt: Point{X: x, Y: y}, fixed: true}
}

// Auto returns the unplaced position.
func Auto() Position { return Position{} }

// IsFixed reports whether the position carries coordinates.
func (p Position) IsFixed() bool { return p.fixed }

// IsAuto reports whether the node still needs layout.
func (p Position) IsAuto() bool { return !p.fixed }

// Point returns the coordinates and true for a Fixed position,
// or the origin and false for Auto.
func (p Position) Point() (Point, bool) { return p.pt, p.fixed }

// OrOrigin returns the coordinates, or (0,0) when Auto.
func (p Position) OrOrigin() Point { return p.pt }

// MarshalJSON encodes Fixed as {"x":..,"y":..} and Auto as null.
func (p Position) MarshalJSON() ([]byte, error) {
	if !p.fixed {
		return []byte("null"), nil
	}
	return json.Marshal(p.pt)
}

// UnmarshalJSON accepts an {"x","y"} object or null.
func (p *Position) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = Position{}
		return nil
	}
	var pt Point
	if err := json.Unmarshal(data, &pt); err != nil {
		return err
	}
	*p = Fixed(pt.X, pt.Y)
	return nil
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// =============================================================================
// Node and Edge
// =============================================================================

// Node is a positioned graph vertex as exchanged with the layout engines.
//
// Size resolution for layout purposes is explicit (Width/Height), then
// measured (MeasuredWidth/MeasuredHeight), then the caller's fallback; the
// first positive, finite value wins.
type Node struct {
	ID       string   `json:"id"`
	Position Position `json:"position,omitzero"`

	Width          float64 `json:"width,omitempty"`
	Height         float64 `json:"height,omitempty"`
	MeasuredWidth  float64 `json:"measured_width,omitempty"`
	MeasuredHeight float64 `json:"measured_height,omitempty"`
}

// Size resolves the node's width and height with the given fallbacks.
func (n Node) Size(fallbackW, fallbackH float64) (w, h float64) {
	return firstSize(n.Width, n.MeasuredWidth, fallbackW), firstSize(n.Height, n.MeasuredHeight, fallbackH)
}

func firstSize(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 && Finite(v) {
			return v
		}
	}
	return 0
}

// Edge is a directed connection between two node IDs.
// Only topology is used; edges naming unknown nodes are ignored by consumers.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the node-link exchange format used by the CLI and HTTP service.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

