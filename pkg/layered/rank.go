package layered

import "github.com/matzehuels/graphpos/pkg/dag"

// assignRanks computes longest-path ranks over the non-back edges of g and
// stores them with SetRanks. It returns the back edges it skipped.
//
// Removing the back edges found by a depth-first search leaves an acyclic
// graph, so the topological sweep below always reaches every node and the
// ranks are contiguous from 0: a node at rank r > 0 has a predecessor at
// rank r-1.
func assignRanks(g *dag.DAG) map[dag.Edge]bool {
	back := g.BackEdges()
	nodes := g.Nodes()

	inDegree := make(map[string]int, len(nodes))
	ranks := make(map[string]int, len(nodes))
	for _, e := range g.Edges() {
		if !back[e] {
			inDegree[e.To]++
		}
	}

	queue := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if back[dag.Edge{From: curr, To: child}] {
				continue
			}
			if r := ranks[curr] + 1; r > ranks[child] {
				ranks[child] = r
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRanks(ranks)
	return back
}
