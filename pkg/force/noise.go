package force

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// jitterMagnitude is the length of the synthetic offset given to
// coincident pairs.
const jitterMagnitude = 1e-3

// jitter produces small, reproducible separation vectors for coincident
// node pairs. The direction comes from a 2D simplex noise field sampled at
// the pair's indexes and the current tick, so runs with the same seed are
// identical while different pairs get different directions.
type jitter struct {
	noise opensimplex.Noise
}

func newJitter(seed int64) jitter {
	return jitter{noise: opensimplex.New(seed)}
}

// direction returns a unit vector for the pair (i, j) at the given tick.
func (j jitter) direction(i, k, tick int) (ux, uy float64) {
	// Offsets keep samples off the integer lattice, where simplex noise is 0.
	x := float64(i)*0.731 + float64(tick)*0.017 + 0.5
	y := float64(k)*0.419 + 0.25
	angle := j.noise.Eval2(x, y) * 2 * math.Pi
	return math.Cos(angle), math.Sin(angle)
}

// offset returns the direction scaled to jitterMagnitude.
func (j jitter) offset(i, k, tick int) (dx, dy float64) {
	ux, uy := j.direction(i, k, tick)
	return ux * jitterMagnitude, uy * jitterMagnitude
}
