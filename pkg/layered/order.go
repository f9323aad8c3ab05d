package layered

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/graphpos/pkg/dag"
)

// orderPasses is the number of alternating sweeps (down, up, down, up).
const orderPasses = 4

// orderLayers groups nodes by rank and reduces crossings with the barycenter
// heuristic. The initial order inside a layer is insertion order.
//
// Down sweeps reorder layer r by the positions of each node's parents in
// layer r-1; up sweeps reorder layer r by its children in layer r+1. Nodes
// without neighbors in the adjacent layer sort last and keep their relative
// order, since the sort is stable.
func orderLayers(g *dag.DAG) [][]string {
	layers := make([][]string, g.RankCount())
	for r := range layers {
		layers[r] = dag.NodeIDs(g.NodesInRank(r))
	}

	for pass := range orderPasses {
		if pass%2 == 0 {
			for r := 1; r < len(layers); r++ {
				sortByBarycenter(layers[r], layers[r-1], g.Parents)
			}
		} else {
			for r := len(layers) - 2; r >= 0; r-- {
				sortByBarycenter(layers[r], layers[r+1], g.Children)
			}
		}
	}
	return layers
}

func sortByBarycenter(layer, adjacent []string, neighbors func(string) []string) {
	if len(layer) < 2 {
		return
	}
	pos := dag.PosMap(adjacent)
	keys := make(map[string]float64, len(layer))
	for _, id := range layer {
		sum, count := 0.0, 0
		for _, nb := range neighbors(id) {
			if p, ok := pos[nb]; ok {
				sum += float64(p)
				count++
			}
		}
		if count == 0 {
			keys[id] = math.Inf(1)
		} else {
			keys[id] = sum / float64(count)
		}
	}
	slices.SortStableFunc(layer, func(a, b string) int {
		return cmp.Compare(keys[a], keys[b])
	})
}
