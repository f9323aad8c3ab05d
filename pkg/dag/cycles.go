package dag

// BackEdges classifies the edges that close a directed cycle.
//
// A depth-first search starts from every source in insertion order and then
// from every node still unvisited, so components without sources (all nodes
// on cycles) are covered. An edge whose target is on the active search path
// is a back edge. The returned set maps each back edge to true; parallel
// copies of an edge share one entry. The graph itself is not modified.
//
// The search uses an explicit stack, so arbitrarily deep graphs cannot
// overflow the goroutine stack.
func (d *DAG) BackEdges() map[Edge]bool {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		id   string
		next int // index of the next child to visit
	}

	color := make(map[string]int, len(d.order))
	back := make(map[Edge]bool)
	var stack []frame

	visit := func(start string) {
		color[start] = gray
		stack = append(stack[:0], frame{id: start})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := d.outgoing[top.id]
			if top.next == len(children) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++
			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child})
			case gray:
				back[Edge{From: top.id, To: child}] = true
			}
		}
	}

	for _, n := range d.Sources() {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}
	for _, n := range d.order {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}
	return back
}

