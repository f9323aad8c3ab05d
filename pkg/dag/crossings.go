package dag

// CountCrossings returns the total number of edge crossings for the given
// rank orderings. orders[r] holds the node IDs of rank r from left to right;
// crossings are summed over each pair of consecutive ranks. Edges that span
// more than one rank, and back edges, are not counted.
//
// Example:
//
//	orders := [][]string{
//	    {"app", "cli"},           // rank 0
//	    {"lib1", "lib2", "lib3"}, // rank 1
//	}
//	crossings := dag.CountCrossings(g, orders)
func CountCrossings(g *DAG, orders [][]string) int {
	crossings := 0
	for r := 0; r+1 < len(orders); r++ {
		crossings += CountLayerCrossings(g, orders[r], orders[r+1])
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between two adjacent ranks using a
// Fenwick tree (binary indexed tree) for O(E log V) performance where E is the
// number of edges between the ranks and V is the number of nodes in the lower
// rank.
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// This is equivalent to counting inversions in the sequence of target
// positions when edges are sorted by source position.
//
// Returns 0 if either rank is empty, as no crossings can exist without edges.
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := PosMap(lower)

	// Walking upper in order and each node's targets sorted ascending yields
	// edges sorted by (source, target) without a comparison sort.
	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	targets := make([]int, 0, 8)
	for _, nodeID := range upper {
		targets = targets[:0]
		for _, child := range g.Children(nodeID) {
			if pos, ok := lowerPos[child]; ok {
				targets = insertSorted(targets, pos)
			}
		}
		for _, t := range targets {
			// Query: edges seen so far with target <= t
			lessOrEqual := 0
			for q := t + 1; q > 0; q -= q & (-q) {
				lessOrEqual += fenwick[q]
			}
			// Crossings = edges seen so far with target > t
			crossings += total - lessOrEqual

			total++
			for idx := t + 1; idx < len(fenwick); idx += idx & (-idx) {
				fenwick[idx]++
			}
		}
	}
	return crossings
}

func insertSorted(s []int, v int) []int {
	i := len(s)
	s = append(s, v)
	for i > 0 && s[i-1] > v {
		s[i] = s[i-1]
		i--
	}
	s[i] = v
	return s
}
