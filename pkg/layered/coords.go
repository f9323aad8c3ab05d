package layered

import (
	"math"

	"github.com/matzehuels/graphpos/pkg/graph"
)

type extent struct{ w, h float64 }

// cross returns the node's extent along the cross axis, rank its extent
// along the rank axis.
func (e extent) cross(d Direction) float64 {
	if d.horizontal() {
		return e.h
	}
	return e.w
}

func (e extent) rank(d Direction) float64 {
	if d.horizontal() {
		return e.w
	}
	return e.h
}

// assignCoordinates places every node of every layer and returns top-left
// coordinates keyed by node ID.
//
// Nodes of a layer are laid out sequentially along the cross axis with
// NodeSpacing gaps, and the layer is offset against the widest layer
// according to Alignment. Each layer advances the rank axis by its largest
// node extent plus RankSpacing.
func assignCoordinates(layers [][]string, sizes map[string]extent, opts Options) map[string]graph.Point {
	dir := opts.Direction

	lengths := make([]float64, len(layers))
	widest := 0.0
	for r, layer := range layers {
		for i, id := range layer {
			if i > 0 {
				lengths[r] += opts.NodeSpacing
			}
			lengths[r] += sizes[id].cross(dir)
		}
		widest = math.Max(widest, lengths[r])
	}

	points := make(map[string]graph.Point)
	rankPos := 0.0
	for r, layer := range layers {
		crossPos := alignOffset(opts.Alignment, widest, lengths[r])
		thickness := 0.0
		for _, id := range layer {
			size := sizes[id]
			if dir.horizontal() {
				points[id] = graph.Point{X: rankPos, Y: crossPos}
			} else {
				points[id] = graph.Point{X: crossPos, Y: rankPos}
			}
			crossPos += size.cross(dir) + opts.NodeSpacing
			thickness = math.Max(thickness, size.rank(dir))
		}
		rankPos += thickness + opts.RankSpacing
	}

	if dir.reversed() {
		mirrorRankAxis(points, dir)
	}
	return points
}

func alignOffset(a Alignment, widest, length float64) float64 {
	switch a {
	case AlignStart:
		return 0
	case AlignEnd:
		return widest - length
	default:
		return (widest - length) / 2
	}
}

// mirrorRankAxis negates the rank coordinate of every point and translates
// the result so the smallest rank coordinate is 0.
func mirrorRankAxis(points map[string]graph.Point, dir Direction) {
	lowest := math.Inf(1)
	for id, p := range points {
		if dir.horizontal() {
			p.X = -p.X
			lowest = math.Min(lowest, p.X)
		} else {
			p.Y = -p.Y
			lowest = math.Min(lowest, p.Y)
		}
		points[id] = p
	}
	for id, p := range points {
		if dir.horizontal() {
			p.X -= lowest
		} else {
			p.Y -= lowest
		}
		points[id] = p
	}
}
