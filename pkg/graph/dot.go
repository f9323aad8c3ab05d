package graph

import (
	"context"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/matzehuels/graphpos/pkg/errors"
)

// ParseDOT reads a Graphviz DOT document into a Graph.
//
// Nodes keep their declaration order. A node with a "pos" attribute of the
// form "x,y" (optionally suffixed with "!") becomes Fixed at that point;
// all other nodes are Auto. "width" and "height" attributes are copied
// verbatim as explicit sizes.
func ParseDOT(data []byte) (Graph, error) {
	gv, err := graphviz.New(context.Background())
	if err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(data)
	if err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "parse DOT")
	}
	defer g.Close()

	var out Graph
	var nodes []*cgraph.Node
	for n, err := g.FirstNode(); n != nil; n, err = g.NextNode(n) {
		if err != nil {
			return Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "walk nodes")
		}
		name, err := n.Name()
		if err != nil {
			return Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node name")
		}
		out.Nodes = append(out.Nodes, Node{
			ID:       name,
			Position: parsePos(n.GetStr("pos")),
			Width:    parseFloat(n.GetStr("width")),
			Height:   parseFloat(n.GetStr("height")),
		})
		nodes = append(nodes, n)
	}

	for _, n := range nodes {
		for e, err := g.FirstOut(n); e != nil; e, err = g.NextOut(e) {
			if err != nil {
				return Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "walk edges")
			}
			tail, err := e.Tail()
			if err != nil {
				return Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "edge tail")
			}
			head, err := e.Head()
			if err != nil {
				return Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "edge head")
			}
			src, _ := tail.Name()
			dst, _ := head.Name()
			out.Edges = append(out.Edges, Edge{Source: src, Target: dst})
		}
	}

	if err := Validate(out); err != nil {
		return Graph{}, err
	}
	return out, nil
}

func parsePos(s string) Position {
	s = strings.TrimSuffix(strings.TrimSpace(s), "!")
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Auto()
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return Auto()
	}
	return Fixed(x, y)
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !Finite(v) || v < 0 {
		return 0
	}
	return v
}
